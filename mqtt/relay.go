package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ilievs/robovac/core"
)

// Device-side topics: whatever gateway talks the vendor protocol consumes
// the command topic and feeds the state and rooms topics.
func (t Topics) DeviceCommand() string {
	return fmt.Sprintf("robovac/%s/device/command", t.Node)
}

func (t Topics) DeviceState() string {
	return fmt.Sprintf("robovac/%s/device/state", t.Node)
}

func (t Topics) DeviceRooms() string {
	return fmt.Sprintf("robovac/%s/device/rooms", t.Node)
}

// CommandRelay implements core.CommandSender by publishing the command as
// JSON on the device command topic.
type CommandRelay struct {
	publisher Publisher
	topic     string
}

func NewCommandRelay(publisher Publisher, node string) *CommandRelay {
	return &CommandRelay{
		publisher: publisher,
		topic:     Topics{Node: node}.DeviceCommand(),
	}
}

func (r *CommandRelay) SendCommand(ctx context.Context, name core.CommandName, params []any) error {
	payload, err := json.Marshal(core.Command{Name: name, Params: params})
	if err != nil {
		return err
	}

	return r.publisher.Publish(r.topic, payload, false)
}

// roomsMessage is the payload of the device rooms topic.
type roomsMessage struct {
	MapID int            `json:"map_id"`
	Rooms map[int]string `json:"rooms"`
}

// StateIngest feeds device-side messages into the coordinator.
type StateIngest struct {
	coordinator *core.Coordinator
	topics      Topics
}

func NewStateIngest(coordinator *core.Coordinator) *StateIngest {
	return &StateIngest{
		coordinator: coordinator,
		topics:      Topics{Node: coordinator.DeviceID()},
	}
}

func (s *StateIngest) Topics() []string {
	return []string{s.topics.DeviceState(), s.topics.DeviceRooms()}
}

// HandleMessage updates the coordinator from one device-side message.
// Messages on other topics are ignored.
func (s *StateIngest) HandleMessage(topic string, payload []byte) error {
	switch topic {
	case s.topics.DeviceState():
		var prop core.DeviceProp
		if err := json.Unmarshal(payload, &prop); err != nil {
			return fmt.Errorf("device state: %w", err)
		}
		s.coordinator.Update(prop)
		return nil
	case s.topics.DeviceRooms():
		var msg roomsMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			return fmt.Errorf("device rooms: %w", err)
		}
		s.coordinator.SetRooms(msg.MapID, msg.Rooms)
		return nil
	}
	return nil
}
