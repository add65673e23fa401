package entity

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ilievs/robovac/core"
)

// RoomSelect lets the user pick a room of the current map for targeted
// cleaning. Selecting does not start a cleaning run; CleanRoomButton does.
type RoomSelect struct {
	coordinator *core.Coordinator

	mu             sync.Mutex
	selectedRoomID int
	hasSelection   bool
}

func NewRoomSelect(coordinator *core.Coordinator) *RoomSelect {
	return &RoomSelect{coordinator: coordinator}
}

func (s *RoomSelect) UniqueID() string {
	return "room_selection_" + s.coordinator.DeviceID()
}

func (s *RoomSelect) TranslationKey() string {
	return "room_selection"
}

func (s *RoomSelect) Icon() string {
	return "mdi:home-map-marker"
}

func (s *RoomSelect) Category() Category {
	return CategoryConfig
}

// Options returns all room names of the current map, sorted for a stable UI.
func (s *RoomSelect) Options() []string {
	rooms := s.coordinator.Rooms()
	names := make([]string, 0, len(rooms))
	for _, name := range rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectOption stores the room matching the given name.
func (s *RoomSelect) SelectOption(option string) error {
	for id, name := range s.coordinator.Rooms() {
		if name == option {
			s.mu.Lock()
			s.selectedRoomID = id
			s.hasSelection = true
			s.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("no room named %q on the current map", option)
}

// CurrentOption returns the selected room name, or "" if nothing is
// selected or the selected room vanished with a map change.
func (s *RoomSelect) CurrentOption() string {
	id, ok := s.SelectedRoomID()
	if !ok {
		return ""
	}
	return s.coordinator.Rooms()[id]
}

// SelectedRoomID exposes the selection for other entities to use.
func (s *RoomSelect) SelectedRoomID() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedRoomID, s.hasSelection
}
