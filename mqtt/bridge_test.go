package mqtt

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ilievs/robovac/core"
	"github.com/ilievs/robovac/entity"
)

type publishedMessage struct {
	Topic   string
	Payload []byte
	Retain  bool
}

type fakePublisher struct {
	messages []publishedMessage
}

func (f *fakePublisher) Publish(topic string, payload []byte, retain bool) error {
	f.messages = append(f.messages, publishedMessage{topic, payload, retain})
	return nil
}

func (f *fakePublisher) byTopic(topic string) ([]byte, bool) {
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].Topic == topic {
			return f.messages[i].Payload, true
		}
	}
	return nil, false
}

type commandRecorder struct {
	sent []core.Command
}

func (r *commandRecorder) SendCommand(ctx context.Context, name core.CommandName, params []any) error {
	r.sent = append(r.sent, core.Command{Name: name, Params: params})
	return nil
}

func testDevice() DeviceInfo {
	return DeviceInfo{
		Identifiers:  []string{"vacuum_1"},
		Name:         "Ribbit the Robut",
		Manufacturer: "Roborock",
		Model:        "S7",
	}
}

func newTestBridge() (*Bridge, *fakePublisher, *commandRecorder, *core.Coordinator) {
	coord := core.NewCoordinator("vacuum_1")
	pub := &fakePublisher{}
	api := &commandRecorder{}
	return NewBridge(coord, api, pub, testDevice()), pub, api, coord
}

func TestPublishDiscoveryCoversEveryEntity(t *testing.T) {

	bridge, pub, _, _ := newTestBridge()
	if err := bridge.PublishDiscovery(); err != nil {
		t.Fatal("PublishDiscovery failed:", err)
	}

	wantCount := len(entity.Sensors) + len(entity.RoomSensors) +
		len(entity.BinarySensors) + len(entity.Switches) + len(entity.Numbers) +
		2 // room select and clean room button
	if len(pub.messages) != wantCount {
		t.Fatal("Expected", wantCount, "discovery messages, but got", len(pub.messages))
	}
	for _, msg := range pub.messages {
		if !msg.Retain {
			t.Fatal("Expected discovery message on", msg.Topic, "to be retained")
		}
	}
}

func TestSensorDiscoveryPayload(t *testing.T) {

	bridge, pub, _, _ := newTestBridge()
	if err := bridge.PublishDiscovery(); err != nil {
		t.Fatal("PublishDiscovery failed:", err)
	}

	payload, ok := pub.byTopic("homeassistant/sensor/vacuum_1/wifi_signal/config")
	if !ok {
		t.Fatal("Expected a discovery config for wifi_signal")
	}

	var cfg DiscoveryPayload
	if err := json.Unmarshal(payload, &cfg); err != nil {
		t.Fatal("Failed to parse discovery payload:", err)
	}

	want := DiscoveryPayload{
		Name:              "wifi_signal",
		UniqueID:          "wifi_signal_vacuum_1",
		StateTopic:        "robovac/vacuum_1/state",
		AvailabilityTopic: "robovac/vacuum_1/availability",
		ValueTemplate:     "{{ value_json.wifi_signal }}",
		DeviceClass:       "signal_strength",
		UnitOfMeasurement: "dBm",
		EntityCategory:    "diagnostic",
		Icon:              "mdi:wifi-strength-2",
		Device:            testDevice(),
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("Discovery payload mismatch (-want +got):\n%s", diff)
	}
}

func TestNumberDiscoveryCarriesRange(t *testing.T) {

	bridge, pub, _, _ := newTestBridge()
	bridge.PublishDiscovery()

	payload, ok := pub.byTopic("homeassistant/number/vacuum_1/volume_level/config")
	if !ok {
		t.Fatal("Expected a discovery config for volume_level")
	}
	var cfg DiscoveryPayload
	json.Unmarshal(payload, &cfg)

	if cfg.Min == nil || *cfg.Min != 0 || cfg.Max == nil || *cfg.Max != 100 || cfg.Step == nil || *cfg.Step != 10 {
		t.Fatal("Expected range 0..100 step 10, but got", cfg.Min, cfg.Max, cfg.Step)
	}
	if cfg.CommandTopic != "robovac/vacuum_1/volume_level/set" {
		t.Fatal("Unexpected command topic", cfg.CommandTopic)
	}
}

func TestStateMapValues(t *testing.T) {

	bridge, _, _, coord := newTestBridge()

	water := 80
	prop := core.DeviceProp{}
	prop.Status.State = core.StateCharging
	prop.Status.WaterPercent = &water
	prop.Status.WaterBoxAttached = true
	coord.Update(prop)
	coord.SetRooms(1, map[int]string{16: "Kitchen"})

	state := bridge.StateMap(prop)

	if state["water_tank_level"] != 80 {
		t.Fatal("Expected water_tank_level 80, but got", state["water_tank_level"])
	}
	if state["is_docked"] != "ON" {
		t.Fatal("Expected is_docked ON, but got", state["is_docked"])
	}
	if state["is_mopping"] != "ON" {
		t.Fatal("Expected is_mopping ON, but got", state["is_mopping"])
	}
	if state["has_error"] != "OFF" {
		t.Fatal("Expected has_error OFF, but got", state["has_error"])
	}
	if state["total_rooms"] != 1 {
		t.Fatal("Expected total_rooms 1, but got", state["total_rooms"])
	}
}

func TestSwitchCommandRouting(t *testing.T) {

	bridge, _, api, _ := newTestBridge()

	err := bridge.HandleMessage(context.Background(), "robovac/vacuum_1/child_lock/set", []byte("ON"))
	if err != nil {
		t.Fatal("HandleMessage failed:", err)
	}

	want := []core.Command{{Name: core.SetChildLock, Params: []any{1}}}
	if diff := cmp.Diff(want, api.sent); diff != "" {
		t.Fatalf("Dispatched commands mismatch (-want +got):\n%s", diff)
	}
}

func TestNumberCommandRouting(t *testing.T) {

	bridge, _, api, _ := newTestBridge()

	err := bridge.HandleMessage(context.Background(), "robovac/vacuum_1/volume_level/set", []byte("70"))
	if err != nil {
		t.Fatal("HandleMessage failed:", err)
	}

	want := []core.Command{{Name: core.ChangeSoundVolume, Params: []any{70}}}
	if diff := cmp.Diff(want, api.sent); diff != "" {
		t.Fatalf("Dispatched commands mismatch (-want +got):\n%s", diff)
	}

	if err := bridge.HandleMessage(context.Background(), "robovac/vacuum_1/volume_level/set", []byte("loud")); err == nil {
		t.Fatal("Expected an error for a non-numeric payload")
	}
}

func TestRoomSelectionAndCleanRouting(t *testing.T) {

	bridge, _, api, coord := newTestBridge()
	coord.SetRooms(1, map[int]string{18: "Hallway"})

	prop := core.DeviceProp{}
	prop.Status.State = core.StateIdle
	coord.Update(prop)

	ctx := context.Background()
	if err := bridge.HandleMessage(ctx, "robovac/vacuum_1/room_selection/set", []byte("Hallway")); err != nil {
		t.Fatal("Room selection failed:", err)
	}
	if err := bridge.HandleMessage(ctx, "robovac/vacuum_1/clean_selected_room/set", []byte("PRESS")); err != nil {
		t.Fatal("Clean room press failed:", err)
	}

	want := []core.Command{{Name: core.AppSegmentClean, Params: []any{18}}}
	if diff := cmp.Diff(want, api.sent); diff != "" {
		t.Fatalf("Dispatched commands mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownTopicsAreIgnored(t *testing.T) {

	bridge, _, api, _ := newTestBridge()

	topics := []string{
		"robovac/other_vacuum/child_lock/set",
		"robovac/vacuum_1/child_lock/state",
		"zigbee2mqtt/whatever",
	}
	for _, topic := range topics {
		if err := bridge.HandleMessage(context.Background(), topic, []byte("ON")); err != nil {
			t.Fatal("Expected unknown topic to be ignored, but got", err)
		}
	}
	if len(api.sent) != 0 {
		t.Fatal("Expected no commands, but got", api.sent)
	}
}

func TestBirthMessageRepublishesEverything(t *testing.T) {

	bridge, pub, _, _ := newTestBridge()

	if err := bridge.HandleMessage(context.Background(), BirthTopic, []byte("online")); err != nil {
		t.Fatal("Birth message handling failed:", err)
	}

	if _, ok := pub.byTopic("homeassistant/switch/vacuum_1/child_lock/config"); !ok {
		t.Fatal("Expected discovery to be republished on birth")
	}
	if payload, ok := pub.byTopic("robovac/vacuum_1/availability"); !ok || string(payload) != "online" {
		t.Fatal("Expected availability online after birth")
	}
	if _, ok := pub.byTopic("robovac/vacuum_1/state"); !ok {
		t.Fatal("Expected state to be published after birth")
	}

	// The offline payload is ignored.
	before := len(pub.messages)
	bridge.HandleMessage(context.Background(), BirthTopic, []byte("offline"))
	if len(pub.messages) != before {
		t.Fatal("Expected no publishes for an offline birth payload")
	}
}
