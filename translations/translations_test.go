package translations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeStrings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strings.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndCheckKeys(t *testing.T) {

	path := writeStrings(t, `{
		"entity": {
			"sensor": {
				"main_brush_time_left": {"name": "Main brush time left"},
				"cleaning_time": {"name": "Cleaning time"}
			},
			"switch": {
				"child_lock": {"name": "Child lock"}
			}
		}
	}`)

	table, err := Load(path)
	if err != nil {
		t.Fatal("Load failed:", err)
	}

	if got := table.SensorKeyCount(); got != 2 {
		t.Fatal("Expected 2 sensor keys, but got", got)
	}

	want := []KeyStatus{
		{Key: "main_brush_time_left", Found: true},
		{Key: "cleaning_time", Found: true},
		{Key: "total_rooms_available", Found: false},
	}
	got := table.CheckSensorKeys(CriticalKeys)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Key status mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {

	if _, err := Load(filepath.Join(t.TempDir(), "strings.json")); err == nil {
		t.Fatal("Expected an error for a missing strings file")
	}
}

func TestLoadCorruptFile(t *testing.T) {

	path := writeStrings(t, "not json at all")
	if _, err := Load(path); err == nil {
		t.Fatal("Expected an error for a corrupt strings file")
	}
}

func TestEmptyTable(t *testing.T) {

	path := writeStrings(t, `{}`)
	table, err := Load(path)
	if err != nil {
		t.Fatal("Load failed:", err)
	}
	if table.HasSensorKey("main_brush_time_left") {
		t.Fatal("Expected no sensor keys in an empty table")
	}
}
