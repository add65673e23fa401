package mqtt

import (
	"fmt"

	"github.com/ilievs/robovac/entity"
)

// DiscoveryPrefix is the default topic prefix Home Assistant listens on
// for MQTT discovery configs.
const DiscoveryPrefix = "homeassistant"

// BirthTopic is where Home Assistant announces its own availability.
// Discovery must be republished when "online" appears here.
const BirthTopic = "homeassistant/status"

// DeviceInfo is the device block shared by all discovery payloads, so the
// host groups every entity under one device.
type DeviceInfo struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	SwVersion    string   `json:"sw_version,omitempty"`
}

// DiscoveryPayload is one entity's discovery config.
type DiscoveryPayload struct {
	Name              string     `json:"name"`
	UniqueID          string     `json:"unique_id"`
	StateTopic        string     `json:"state_topic"`
	CommandTopic      string     `json:"command_topic,omitempty"`
	AvailabilityTopic string     `json:"availability_topic,omitempty"`
	ValueTemplate     string     `json:"value_template,omitempty"`
	DeviceClass       string     `json:"device_class,omitempty"`
	StateClass        string     `json:"state_class,omitempty"`
	UnitOfMeasurement string     `json:"unit_of_measurement,omitempty"`
	EntityCategory    string     `json:"entity_category,omitempty"`
	Icon              string     `json:"icon,omitempty"`
	Options           []string   `json:"options,omitempty"`
	Min               *float64   `json:"min,omitempty"`
	Max               *float64   `json:"max,omitempty"`
	Step              *float64   `json:"step,omitempty"`
	PayloadPress      string     `json:"payload_press,omitempty"`
	Device            DeviceInfo `json:"device"`
}

// Topics builds every topic of one node from the node id.
type Topics struct {
	Node string
}

func (t Topics) State() string {
	return fmt.Sprintf("robovac/%s/state", t.Node)
}

func (t Topics) Availability() string {
	return fmt.Sprintf("robovac/%s/availability", t.Node)
}

func (t Topics) Command(key string) string {
	return fmt.Sprintf("robovac/%s/%s/set", t.Node, key)
}

func (t Topics) Config(component, key string) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", DiscoveryPrefix, component, t.Node, key)
}

func valueTemplate(key string) string {
	return fmt.Sprintf("{{ value_json.%s }}", key)
}

func (t Topics) base(desc entity.Description, device DeviceInfo) DiscoveryPayload {
	return DiscoveryPayload{
		Name:              desc.TranslationKey,
		UniqueID:          desc.Key + "_" + t.Node,
		StateTopic:        t.State(),
		AvailabilityTopic: t.Availability(),
		ValueTemplate:     valueTemplate(desc.Key),
		DeviceClass:       desc.DeviceClass,
		StateClass:        desc.StateClass,
		UnitOfMeasurement: desc.Unit,
		EntityCategory:    string(desc.Category),
		Icon:              desc.Icon,
		Options:           desc.Options,
		Device:            device,
	}
}

// SensorConfig renders the discovery payload of one sensor description.
func (t Topics) SensorConfig(desc entity.SensorDescription, device DeviceInfo) DiscoveryPayload {
	return t.base(desc.Description, device)
}

// BinarySensorConfig renders the discovery payload of one binary sensor.
func (t Topics) BinarySensorConfig(desc entity.BinarySensorDescription, device DeviceInfo) DiscoveryPayload {
	p := t.base(desc.Description, device)
	p.Options = nil
	return p
}

// SwitchConfig renders the discovery payload of one switch.
func (t Topics) SwitchConfig(desc entity.SwitchDescription, device DeviceInfo) DiscoveryPayload {
	p := t.base(desc.Description, device)
	p.CommandTopic = t.Command(desc.Key)
	return p
}

// NumberConfig renders the discovery payload of one number.
func (t Topics) NumberConfig(desc entity.NumberDescription, device DeviceInfo) DiscoveryPayload {
	p := t.base(desc.Description, device)
	p.CommandTopic = t.Command(desc.Key)
	min, max, step := desc.Min, desc.Max, desc.Step
	p.Min = &min
	p.Max = &max
	p.Step = &step
	return p
}
