package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ilievs/robovac/core"
	"github.com/ilievs/robovac/entity"
)

// Bridge announces the declared vacuum entities to Home Assistant over MQTT
// discovery, republishes coordinator state, and routes command topics back
// into the device command API.
type Bridge struct {
	coordinator *core.Coordinator
	api         core.CommandSender
	publisher   Publisher
	device      DeviceInfo
	topics      Topics

	switches   map[string]*entity.Switch
	numbers    map[string]*entity.Number
	roomSelect *entity.RoomSelect
	cleanRoom  *entity.CleanRoomButton
}

func NewBridge(coordinator *core.Coordinator, api core.CommandSender, publisher Publisher, device DeviceInfo) *Bridge {
	b := &Bridge{
		coordinator: coordinator,
		api:         api,
		publisher:   publisher,
		device:      device,
		topics:      Topics{Node: coordinator.DeviceID()},
		switches:    make(map[string]*entity.Switch),
		numbers:     make(map[string]*entity.Number),
	}

	for _, desc := range entity.Switches {
		b.switches[desc.Key] = entity.NewSwitch(coordinator, api, desc)
	}
	for _, desc := range entity.Numbers {
		b.numbers[desc.Key] = entity.NewNumber(coordinator, api, desc)
	}
	b.roomSelect = entity.NewRoomSelect(coordinator)
	b.cleanRoom = entity.NewCleanRoomButton(coordinator, api, b.roomSelect)

	return b
}

func (b *Bridge) publishJSON(topic string, v any, retain bool) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.publisher.Publish(topic, payload, retain)
}

// PublishDiscovery publishes the retained discovery config of every entity.
func (b *Bridge) PublishDiscovery() error {
	for _, desc := range entity.Sensors {
		cfg := b.topics.SensorConfig(desc, b.device)
		if err := b.publishJSON(b.topics.Config("sensor", desc.Key), cfg, true); err != nil {
			return fmt.Errorf("discovery for sensor %s: %w", desc.Key, err)
		}
	}
	for _, desc := range entity.RoomSensors {
		cfg := b.topics.base(desc.Description, b.device)
		if err := b.publishJSON(b.topics.Config("sensor", desc.Key), cfg, true); err != nil {
			return fmt.Errorf("discovery for sensor %s: %w", desc.Key, err)
		}
	}
	for _, desc := range entity.BinarySensors {
		cfg := b.topics.BinarySensorConfig(desc, b.device)
		if err := b.publishJSON(b.topics.Config("binary_sensor", desc.Key), cfg, true); err != nil {
			return fmt.Errorf("discovery for binary sensor %s: %w", desc.Key, err)
		}
	}
	for _, desc := range entity.Switches {
		cfg := b.topics.SwitchConfig(desc, b.device)
		if err := b.publishJSON(b.topics.Config("switch", desc.Key), cfg, true); err != nil {
			return fmt.Errorf("discovery for switch %s: %w", desc.Key, err)
		}
	}
	for _, desc := range entity.Numbers {
		cfg := b.topics.NumberConfig(desc, b.device)
		if err := b.publishJSON(b.topics.Config("number", desc.Key), cfg, true); err != nil {
			return fmt.Errorf("discovery for number %s: %w", desc.Key, err)
		}
	}

	selectCfg := b.topics.base(entity.Description{
		Key:            "room_selection",
		TranslationKey: b.roomSelect.TranslationKey(),
		Category:       b.roomSelect.Category(),
		Icon:           b.roomSelect.Icon(),
		Options:        b.roomSelect.Options(),
	}, b.device)
	selectCfg.CommandTopic = b.topics.Command("room_selection")
	if err := b.publishJSON(b.topics.Config("select", "room_selection"), selectCfg, true); err != nil {
		return fmt.Errorf("discovery for room select: %w", err)
	}

	buttonCfg := DiscoveryPayload{
		Name:              b.cleanRoom.TranslationKey(),
		UniqueID:          "clean_selected_room_" + b.topics.Node,
		StateTopic:        b.topics.State(),
		AvailabilityTopic: b.topics.Availability(),
		CommandTopic:      b.topics.Command("clean_selected_room"),
		PayloadPress:      "PRESS",
		Icon:              b.cleanRoom.Icon(),
		Device:            b.device,
	}
	if err := b.publishJSON(b.topics.Config("button", "clean_selected_room"), buttonCfg, true); err != nil {
		return fmt.Errorf("discovery for clean room button: %w", err)
	}

	return nil
}

// StateMap renders one snapshot into the flat JSON object published on the
// state topic. Binary values use the host's ON/OFF convention.
func (b *Bridge) StateMap(prop core.DeviceProp) map[string]any {
	state := make(map[string]any)
	for _, desc := range entity.Sensors {
		state[desc.Key] = desc.Value(prop)
	}
	rooms := b.coordinator.Rooms()
	for _, desc := range entity.RoomSensors {
		if rooms == nil {
			state[desc.Key] = nil
			continue
		}
		state[desc.Key] = desc.Value(prop, rooms)
	}
	for _, desc := range entity.BinarySensors {
		state[desc.Key] = onOffPayload(desc.Value(prop))
	}
	for _, desc := range entity.Switches {
		state[desc.Key] = onOffPayload(desc.Value(prop))
	}
	for _, desc := range entity.Numbers {
		state[desc.Key] = desc.Value(prop)
	}
	state["room_selection"] = b.roomSelect.CurrentOption()
	return state
}

func onOffPayload(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// PublishState publishes the snapshot on the state topic.
func (b *Bridge) PublishState(prop core.DeviceProp) error {
	return b.publishJSON(b.topics.State(), b.StateMap(prop), true)
}

// PublishAvailability marks the node online or offline.
func (b *Bridge) PublishAvailability(online bool) error {
	payload := "offline"
	if online {
		payload = "online"
	}
	return b.publisher.Publish(b.topics.Availability(), []byte(payload), true)
}

// CommandTopicsFor lists every topic the bridge of the given node wants to
// receive, including the host's birth topic.
func CommandTopicsFor(node string) []string {
	t := Topics{Node: node}
	topics := []string{BirthTopic}
	for _, desc := range entity.Switches {
		topics = append(topics, t.Command(desc.Key))
	}
	for _, desc := range entity.Numbers {
		topics = append(topics, t.Command(desc.Key))
	}
	topics = append(topics,
		t.Command("room_selection"),
		t.Command("clean_selected_room"),
	)
	return topics
}

// CommandTopics lists every topic this bridge wants to receive.
func (b *Bridge) CommandTopics() []string {
	return CommandTopicsFor(b.topics.Node)
}

// RoomSelect exposes the room selector so other surfaces share one
// selection state with the MQTT side.
func (b *Bridge) RoomSelect() *entity.RoomSelect {
	return b.roomSelect
}

// CleanRoomButton exposes the clean-room button backing the MQTT side.
func (b *Bridge) CleanRoomButton() *entity.CleanRoomButton {
	return b.cleanRoom
}

// HandleMessage routes one received message. Unknown topics are ignored
// so the caller can use a broad subscription.
func (b *Bridge) HandleMessage(ctx context.Context, topic string, payload []byte) error {
	if topic == BirthTopic {
		if string(payload) == "online" {
			if err := b.PublishDiscovery(); err != nil {
				return err
			}
			if err := b.PublishAvailability(true); err != nil {
				return err
			}
			return b.PublishState(b.coordinator.Prop())
		}
		return nil
	}

	key, ok := b.commandKey(topic)
	if !ok {
		return nil
	}

	if sw, ok := b.switches[key]; ok {
		switch strings.ToUpper(strings.TrimSpace(string(payload))) {
		case "ON":
			return sw.TurnOn(ctx)
		case "OFF":
			return sw.TurnOff(ctx)
		}
		return fmt.Errorf("switch %s: unexpected payload %q", key, payload)
	}

	if n, ok := b.numbers[key]; ok {
		value, err := strconv.ParseFloat(strings.TrimSpace(string(payload)), 64)
		if err != nil {
			return fmt.Errorf("number %s: %w", key, err)
		}
		return n.SetValue(ctx, value)
	}

	switch key {
	case "room_selection":
		return b.roomSelect.SelectOption(string(payload))
	case "clean_selected_room":
		return b.cleanRoom.Press(ctx)
	}
	return nil
}

func (b *Bridge) commandKey(topic string) (string, bool) {
	prefix := fmt.Sprintf("robovac/%s/", b.topics.Node)
	rest, found := strings.CutPrefix(topic, prefix)
	if !found {
		return "", false
	}
	key, found := strings.CutSuffix(rest, "/set")
	if !found {
		return "", false
	}
	return key, true
}

// Run publishes every coordinator update until the context is cancelled.
// Per-message errors are logged and do not stop the loop.
func (b *Bridge) Run(ctx context.Context) {
	updates := b.coordinator.SubscribeToUpdates()
	for {
		select {
		case prop := <-updates:
			if err := b.PublishState(prop); err != nil {
				slog.Error("failed to publish state", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
