package core

import "context"

// CommandName identifies a device command in the vendor protocol.
type CommandName string

const (
	SetCarpetMode     CommandName = "set_carpet_mode"
	SetDNDTimer       CommandName = "set_dnd_timer"
	CloseDNDTimer     CommandName = "close_dnd_timer"
	SetChildLock      CommandName = "set_child_lock_status"
	SetCleanSequence  CommandName = "set_clean_sequence"
	ChangeSoundVolume CommandName = "change_sound_volume"
	AppSegmentClean   CommandName = "app_segment_clean"
	AppZonedClean     CommandName = "app_zoned_clean"
	AppGotoTarget     CommandName = "app_goto_target"
	AppSpotClean      CommandName = "app_spot"
	ResetMap          CommandName = "reset_map"
	NameSegment       CommandName = "name_segment"
	SetServerTimer    CommandName = "set_server_timer"
)

// Command is a single dispatch to the device: a command name and its
// positional parameters, as the vendor protocol expects them.
type Command struct {
	Name   CommandName `json:"name"`
	Params []any       `json:"params,omitempty"`
}

// CommandSender dispatches commands to the device. Implementations are owned
// by whatever transport the deployment uses; entities only depend on this.
type CommandSender interface {
	SendCommand(ctx context.Context, name CommandName, params []any) error
}

// CommandSenderFunc adapts a function to the CommandSender interface.
type CommandSenderFunc func(ctx context.Context, name CommandName, params []any) error

func (f CommandSenderFunc) SendCommand(ctx context.Context, name CommandName, params []any) error {
	return f(ctx, name, params)
}
