package entity

import (
	"context"
	"errors"

	"github.com/ilievs/robovac/core"
)

// ErrNoRoomSelected is returned when the clean-room button is pressed
// before a room has been picked in the room selector.
var ErrNoRoomSelected = errors.New("no room selected for cleaning")

// CleanRoomButton starts a segment clean of the room currently picked in
// the companion RoomSelect.
type CleanRoomButton struct {
	coordinator *core.Coordinator
	api         core.CommandSender
	selector    *RoomSelect
}

func NewCleanRoomButton(coordinator *core.Coordinator, api core.CommandSender, selector *RoomSelect) *CleanRoomButton {
	return &CleanRoomButton{coordinator: coordinator, api: api, selector: selector}
}

func (b *CleanRoomButton) UniqueID() string {
	return "clean_selected_room_" + b.coordinator.DeviceID()
}

func (b *CleanRoomButton) TranslationKey() string {
	return "clean_selected_room"
}

func (b *CleanRoomButton) Icon() string {
	return "mdi:robot-vacuum"
}

// Available reports whether a press would be accepted: a room is selected
// and the vacuum is idle or on the dock.
func (b *CleanRoomButton) Available() bool {
	if _, ok := b.selector.SelectedRoomID(); !ok {
		return false
	}
	return b.coordinator.Prop().Status.ReadyForCommand()
}

// Press dispatches an app_segment_clean for the selected room.
func (b *CleanRoomButton) Press(ctx context.Context) error {
	id, ok := b.selector.SelectedRoomID()
	if !ok {
		return ErrNoRoomSelected
	}
	return b.api.SendCommand(ctx, core.AppSegmentClean, []any{id})
}
