package entity

import "github.com/ilievs/robovac/core"

// BinarySensorDescription describes an on/off sensor.
type BinarySensorDescription struct {
	Description
	Value func(prop core.DeviceProp) bool
}

func boolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

// BinarySensors is the table of additional binary sensors.
var BinarySensors = []BinarySensorDescription{
	{
		Description: Description{
			Key:            "is_mopping",
			TranslationKey: "is_mopping",
			DeviceClass:    ClassMoisture,
			Category:       CategoryDiagnostic,
			Icon:           "mdi:spray",
		},
		Value: func(prop core.DeviceProp) bool {
			return prop.Status.WaterBoxAttached
		},
	},
	{
		Description: Description{
			Key:            "is_docked",
			TranslationKey: "is_docked",
			DeviceClass:    ClassPlug,
			Category:       CategoryDiagnostic,
			Icon:           "mdi:home-circle",
		},
		Value: func(prop core.DeviceProp) bool {
			return prop.Status.Docked()
		},
	},
	{
		Description: Description{
			Key:            "has_error",
			TranslationKey: "has_error",
			DeviceClass:    ClassProblem,
			Category:       CategoryDiagnostic,
			Icon:           "mdi:alert-circle",
		},
		Value: func(prop core.DeviceProp) bool {
			return prop.Status.ErrorCode != 0
		},
	},
	{
		Description: Description{
			Key:            "carpet_boost_enabled",
			TranslationKey: "carpet_boost_enabled",
			Category:       CategoryDiagnostic,
			Icon:           "mdi:rug",
		},
		Value: func(prop core.DeviceProp) bool {
			return boolOr(prop.Status.CarpetBoost, false)
		},
	},
	{
		Description: Description{
			Key:            "dnd_active",
			TranslationKey: "dnd_active",
			Category:       CategoryDiagnostic,
			Icon:           "mdi:sleep",
		},
		Value: func(prop core.DeviceProp) bool {
			return boolOr(prop.Status.DNDEnabled, false)
		},
	},
}

// BinarySensor is a stateless on/off entity bound to a coordinator.
type BinarySensor struct {
	coordinator *core.Coordinator
	desc        BinarySensorDescription
}

func NewBinarySensor(coordinator *core.Coordinator, desc BinarySensorDescription) *BinarySensor {
	return &BinarySensor{coordinator: coordinator, desc: desc}
}

func (s *BinarySensor) UniqueID() string {
	return s.desc.Key + "_" + s.coordinator.DeviceID()
}

func (s *BinarySensor) Description() BinarySensorDescription {
	return s.desc
}

func (s *BinarySensor) IsOn() bool {
	return s.desc.Value(s.coordinator.Prop())
}
