package mqtt

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ilievs/robovac/core"
)

func TestCommandRelayPublishesJSON(t *testing.T) {

	pub := &fakePublisher{}
	relay := NewCommandRelay(pub, "vacuum_1")

	err := relay.SendCommand(context.Background(), core.AppSegmentClean, []any{16})
	if err != nil {
		t.Fatal("SendCommand failed:", err)
	}

	payload, ok := pub.byTopic("robovac/vacuum_1/device/command")
	if !ok {
		t.Fatal("Expected a message on the device command topic")
	}
	var cmd core.Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		t.Fatal("Failed to parse command payload:", err)
	}
	if cmd.Name != core.AppSegmentClean {
		t.Fatal("Expected app_segment_clean, but got", cmd.Name)
	}
}

func TestStateIngest(t *testing.T) {

	coord := core.NewCoordinator("vacuum_1")
	ingest := NewStateIngest(coord)

	state := []byte(`{"status": {"state": 8, "battery": 95}}`)
	if err := ingest.HandleMessage("robovac/vacuum_1/device/state", state); err != nil {
		t.Fatal("State ingest failed:", err)
	}
	if got := coord.Prop().Status.Battery; got != 95 {
		t.Fatal("Expected battery 95, but got", got)
	}

	rooms := []byte(`{"map_id": 2, "rooms": {"16": "Kitchen"}}`)
	if err := ingest.HandleMessage("robovac/vacuum_1/device/rooms", rooms); err != nil {
		t.Fatal("Rooms ingest failed:", err)
	}
	if got := coord.Rooms()[16]; got != "Kitchen" {
		t.Fatal("Expected room 16 Kitchen, but got", got)
	}

	if err := ingest.HandleMessage("robovac/vacuum_1/device/state", []byte("garbage")); err == nil {
		t.Fatal("Expected an error for a corrupt state payload")
	}
}
