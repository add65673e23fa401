package entity

import (
	"sort"
	"strings"

	"github.com/ilievs/robovac/core"
)

// SensorDescription describes one read-only sensor and how to pull its
// value out of a device snapshot. A nil value means "unknown".
type SensorDescription struct {
	Description
	Value func(prop core.DeviceProp) any
}

func navigationState(c core.InCleaningCode) string {
	switch c {
	case core.CleaningZone:
		return "zone_cleaning"
	case core.CleaningSegment:
		return "segment_cleaning"
	case core.CleaningSpot:
		return "spot_cleaning"
	}
	return "idle"
}

func intOrNil(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// Sensors is the table of additional sensors beyond what the stock
// integration exposes. Keys double as translation keys.
var Sensors = []SensorDescription{
	{
		Description: Description{
			Key:            "navigation_state",
			TranslationKey: "navigation_state",
			Category:       CategoryDiagnostic,
			DeviceClass:    ClassEnum,
			Options:        []string{"idle", "zone_cleaning", "segment_cleaning", "spot_cleaning", "mapping"},
			Icon:           "mdi:map-marker-path",
		},
		Value: func(prop core.DeviceProp) any {
			return navigationState(prop.Status.InCleaning)
		},
	},
	{
		Description: Description{
			Key:            "carpet_detected",
			TranslationKey: "carpet_detected",
			Category:       CategoryDiagnostic,
			Icon:           "mdi:rug",
		},
		Value: func(prop core.DeviceProp) any {
			return intOrNil(prop.Status.CarpetMode)
		},
	},
	{
		Description: Description{
			Key:            "water_tank_level",
			TranslationKey: "water_tank_level",
			Category:       CategoryDiagnostic,
			Unit:           "%",
			DeviceClass:    ClassBattery,
			Icon:           "mdi:water-percent",
		},
		Value: func(prop core.DeviceProp) any {
			return intOrNil(prop.Status.WaterPercent)
		},
	},
	{
		Description: Description{
			Key:            "dustbin_status",
			TranslationKey: "dustbin_status",
			Category:       CategoryDiagnostic,
			DeviceClass:    ClassEnum,
			Options:        []string{"empty", "partial", "full", "removed"},
			Icon:           "mdi:delete-variant",
		},
		Value: func(prop core.DeviceProp) any {
			if prop.Status.DustbinState == nil {
				return "unknown"
			}
			return *prop.Status.DustbinState
		},
	},
	{
		Description: Description{
			Key:            "zone_cleaning_progress",
			TranslationKey: "zone_cleaning_progress",
			Category:       CategoryDiagnostic,
			Unit:           "%",
			Icon:           "mdi:progress-check",
		},
		Value: func(prop core.DeviceProp) any {
			return intOrNil(prop.Status.ZoneProgress)
		},
	},
	{
		Description: Description{
			Key:            "dnd_status",
			TranslationKey: "dnd_status",
			Category:       CategoryDiagnostic,
			DeviceClass:    ClassEnum,
			Options:        []string{"disabled", "enabled", "scheduled"},
			Icon:           "mdi:sleep",
		},
		Value: func(prop core.DeviceProp) any {
			if prop.Status.DNDEnabled == nil {
				return nil
			}
			if *prop.Status.DNDEnabled {
				return "enabled"
			}
			return "disabled"
		},
	},
	{
		Description: Description{
			Key:            "wifi_signal",
			TranslationKey: "wifi_signal",
			Category:       CategoryDiagnostic,
			Unit:           "dBm",
			DeviceClass:    ClassSignalStrength,
			Icon:           "mdi:wifi-strength-2",
		},
		Value: func(prop core.DeviceProp) any {
			return intOrNil(prop.Status.WifiRSSI)
		},
	},
	{
		Description: Description{
			Key:            "cleaning_sequence",
			TranslationKey: "cleaning_sequence",
			Category:       CategoryDiagnostic,
			DeviceClass:    ClassEnum,
			Options:        []string{"auto", "edge", "spot", "single_room", "zone"},
			Icon:           "mdi:format-list-numbered",
		},
		Value: func(prop core.DeviceProp) any {
			if prop.Status.CleaningMode == nil {
				return nil
			}
			return *prop.Status.CleaningMode
		},
	},
	{
		Description: Description{
			Key:            "last_error_time",
			TranslationKey: "last_error_time",
			Category:       CategoryDiagnostic,
			DeviceClass:    ClassTimestamp,
			Icon:           "mdi:alert-circle",
		},
		Value: func(prop core.DeviceProp) any {
			if prop.Status.LastErrorTime == nil {
				return nil
			}
			return *prop.Status.LastErrorTime
		},
	},
	{
		Description: Description{
			Key:            "maintenance_alerts",
			TranslationKey: "maintenance_alerts",
			Category:       CategoryDiagnostic,
			StateClass:     StateClassMeasurement,
			Icon:           "mdi:wrench-clock",
		},
		Value: func(prop core.DeviceProp) any {
			return prop.Consumable.MaintenanceAlerts()
		},
	},
	{
		Description: Description{
			Key:            "current_cleaning_pass",
			TranslationKey: "current_cleaning_pass",
			Category:       CategoryDiagnostic,
			Icon:           "mdi:repeat",
		},
		Value: func(prop core.DeviceProp) any {
			if prop.Status.CleaningPasses == nil {
				return 1
			}
			return *prop.Status.CleaningPasses
		},
	},
}

// Sensor is a stateless read-only entity bound to a coordinator.
type Sensor struct {
	coordinator *core.Coordinator
	desc        SensorDescription
}

func NewSensor(coordinator *core.Coordinator, desc SensorDescription) *Sensor {
	return &Sensor{coordinator: coordinator, desc: desc}
}

func (s *Sensor) UniqueID() string {
	return s.desc.Key + "_" + s.coordinator.DeviceID()
}

func (s *Sensor) Description() SensorDescription {
	return s.desc
}

// NativeValue evaluates the extractor against the latest snapshot.
func (s *Sensor) NativeValue() any {
	return s.desc.Value(s.coordinator.Prop())
}

// RoomSensorDescription is a sensor evaluated over the snapshot plus the
// room table of the current map.
type RoomSensorDescription struct {
	Description
	Value func(prop core.DeviceProp, rooms map[int]string) any
}

// RoomSensors expose information about the rooms of the current map.
var RoomSensors = []RoomSensorDescription{
	{
		Description: Description{
			Key:            "total_rooms",
			TranslationKey: "total_rooms",
			Category:       CategoryDiagnostic,
			Icon:           "mdi:home-map-marker",
		},
		Value: func(prop core.DeviceProp, rooms map[int]string) any {
			return len(rooms)
		},
	},
	{
		Description: Description{
			Key:            "room_cleaning_order",
			TranslationKey: "room_cleaning_order",
			Category:       CategoryDiagnostic,
			Icon:           "mdi:format-list-numbered",
		},
		Value: func(prop core.DeviceProp, rooms map[int]string) any {
			if len(rooms) == 0 {
				return nil
			}
			names := make([]string, 0, len(rooms))
			for _, name := range rooms {
				names = append(names, name)
			}
			sort.Strings(names)
			return strings.Join(names, ", ")
		},
	},
}

// RoomSensor binds a RoomSensorDescription to a coordinator.
type RoomSensor struct {
	coordinator *core.Coordinator
	desc        RoomSensorDescription
}

func NewRoomSensor(coordinator *core.Coordinator, desc RoomSensorDescription) *RoomSensor {
	return &RoomSensor{coordinator: coordinator, desc: desc}
}

func (s *RoomSensor) UniqueID() string {
	return s.desc.Key + "_" + s.coordinator.DeviceID()
}

// NativeValue returns nil until a map with rooms is known.
func (s *RoomSensor) NativeValue() any {
	rooms := s.coordinator.Rooms()
	if rooms == nil {
		return nil
	}
	return s.desc.Value(s.coordinator.Prop(), rooms)
}
