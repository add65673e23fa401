package entity

import (
	"context"
	"fmt"

	"github.com/ilievs/robovac/core"
)

// NumberDescription describes a numeric setting backed by one device command.
type NumberDescription struct {
	Description
	Min     float64
	Max     float64
	Step    float64
	Command core.CommandName
	Params  func(value float64) []any
	Value   func(prop core.DeviceProp) float64
}

// Numbers is the table of numeric settings.
var Numbers = []NumberDescription{
	{
		Description: Description{
			Key:            "cleaning_passes",
			TranslationKey: "cleaning_passes",
			Category:       CategoryConfig,
			Icon:           "mdi:repeat",
		},
		Min:     1,
		Max:     3,
		Step:    1,
		Command: core.SetCleanSequence,
		Params: func(value float64) []any {
			return []any{int(value)}
		},
		Value: func(prop core.DeviceProp) float64 {
			if prop.Status.CleaningPasses == nil {
				return 1
			}
			return float64(*prop.Status.CleaningPasses)
		},
	},
	{
		Description: Description{
			Key:            "volume_level",
			TranslationKey: "volume_level",
			Category:       CategoryConfig,
			Unit:           "%",
			Icon:           "mdi:volume-high",
		},
		Min:     0,
		Max:     100,
		Step:    10,
		Command: core.ChangeSoundVolume,
		Params: func(value float64) []any {
			return []any{int(value)}
		},
		Value: func(prop core.DeviceProp) float64 {
			if prop.Status.SoundVolume == nil {
				return 50
			}
			return float64(*prop.Status.SoundVolume)
		},
	},
}

// Number forwards value changes to the device command API.
type Number struct {
	coordinator *core.Coordinator
	api         core.CommandSender
	desc        NumberDescription
}

func NewNumber(coordinator *core.Coordinator, api core.CommandSender, desc NumberDescription) *Number {
	return &Number{coordinator: coordinator, api: api, desc: desc}
}

func (n *Number) UniqueID() string {
	return n.desc.Key + "_" + n.coordinator.DeviceID()
}

func (n *Number) Description() NumberDescription {
	return n.desc
}

func (n *Number) NativeValue() float64 {
	return n.desc.Value(n.coordinator.Prop())
}

// SetValue rejects values outside the declared range before dispatching.
func (n *Number) SetValue(ctx context.Context, value float64) error {
	if value < n.desc.Min || value > n.desc.Max {
		return fmt.Errorf("value %v out of range [%v, %v] for %s",
			value, n.desc.Min, n.desc.Max, n.desc.Key)
	}
	return n.api.SendCommand(ctx, n.desc.Command, n.desc.Params(value))
}
