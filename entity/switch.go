package entity

import (
	"context"

	"github.com/ilievs/robovac/core"
)

// SwitchDescription describes a toggle backed by one device command.
// Params builds the positional parameter list for the desired state.
type SwitchDescription struct {
	Description
	Command core.CommandName
	Params  func(enabled bool) []any
	Value   func(prop core.DeviceProp) bool
}

func onOff(enabled bool) []any {
	if enabled {
		return []any{1}
	}
	return []any{0}
}

// Switches is the table of configuration toggles.
var Switches = []SwitchDescription{
	{
		Description: Description{
			Key:            "carpet_boost",
			TranslationKey: "carpet_boost",
			Category:       CategoryConfig,
			Icon:           "mdi:rug",
		},
		Command: core.SetCarpetMode,
		Params:  onOff,
		Value: func(prop core.DeviceProp) bool {
			return boolOr(prop.Status.CarpetBoost, false)
		},
	},
	{
		Description: Description{
			Key:            "dnd_mode",
			TranslationKey: "dnd_mode",
			Category:       CategoryConfig,
			Icon:           "mdi:sleep",
		},
		Command: core.SetDNDTimer,
		// 10PM to 8AM when enabled, all zeros to clear the timer.
		Params: func(enabled bool) []any {
			if enabled {
				return []any{22, 0, 8, 0}
			}
			return []any{0, 0, 0, 0}
		},
		Value: func(prop core.DeviceProp) bool {
			return boolOr(prop.Status.DNDEnabled, false)
		},
	},
	{
		Description: Description{
			Key:            "child_lock",
			TranslationKey: "child_lock",
			Category:       CategoryConfig,
			Icon:           "mdi:account-child",
		},
		Command: core.SetChildLock,
		Params:  onOff,
		Value: func(prop core.DeviceProp) bool {
			return boolOr(prop.Status.ChildLock, false)
		},
	},
}

// Switch forwards on/off actions to the device command API.
type Switch struct {
	coordinator *core.Coordinator
	api         core.CommandSender
	desc        SwitchDescription
}

func NewSwitch(coordinator *core.Coordinator, api core.CommandSender, desc SwitchDescription) *Switch {
	return &Switch{coordinator: coordinator, api: api, desc: desc}
}

func (s *Switch) UniqueID() string {
	return s.desc.Key + "_" + s.coordinator.DeviceID()
}

func (s *Switch) Description() SwitchDescription {
	return s.desc
}

func (s *Switch) IsOn() bool {
	return s.desc.Value(s.coordinator.Prop())
}

func (s *Switch) TurnOn(ctx context.Context) error {
	return s.api.SendCommand(ctx, s.desc.Command, s.desc.Params(true))
}

func (s *Switch) TurnOff(ctx context.Context) error {
	return s.api.SendCommand(ctx, s.desc.Command, s.desc.Params(false))
}
