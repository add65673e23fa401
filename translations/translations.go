// Package translations inspects the integration's localized-strings table
// (the strings.json shape) to verify that the translation keys the entity
// tables rely on are actually present. It never writes anything.
package translations

import (
	"encoding/json"
	"fmt"
	"os"
)

// CriticalKeys are the sensor translation keys whose absence is the usual
// cause of entities showing raw device-class names in the UI.
var CriticalKeys = []string{
	"main_brush_time_left",
	"cleaning_time",
	"total_rooms_available",
}

// Table is one parsed strings.json file.
type Table struct {
	Entity map[string]map[string]json.RawMessage `json:"entity"`
}

// Load parses a strings.json file.
func Load(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("strings file: %w", err)
	}
	var table Table
	if err := json.Unmarshal(b, &table); err != nil {
		return nil, fmt.Errorf("strings file %s: %w", path, err)
	}
	return &table, nil
}

// SensorKeyCount returns how many sensor translations the table carries.
func (t *Table) SensorKeyCount() int {
	return len(t.Entity["sensor"])
}

// HasSensorKey reports whether a sensor translation key exists.
func (t *Table) HasSensorKey(key string) bool {
	_, ok := t.Entity["sensor"][key]
	return ok
}

// KeyStatus is the check result for one translation key.
type KeyStatus struct {
	Key   string
	Found bool
}

// CheckSensorKeys reports found/missing status for each given key,
// in input order.
func (t *Table) CheckSensorKeys(keys []string) []KeyStatus {
	statuses := make([]KeyStatus, 0, len(keys))
	for _, key := range keys {
		statuses = append(statuses, KeyStatus{Key: key, Found: t.HasSensorKey(key)})
	}
	return statuses
}
