// Package entity declares the additional vacuum entities exposed to the home
// automation layer: declarative descriptions with value extractors over a
// core.DeviceProp snapshot, and thin wrappers that forward user actions to
// the device command API.
package entity

// Category tells the host where an entity belongs in the UI.
type Category string

const (
	CategoryNone       Category = ""
	CategoryConfig     Category = "config"
	CategoryDiagnostic Category = "diagnostic"
)

// Device and state classes as the host framework spells them.
const (
	ClassBattery        = "battery"
	ClassEnum           = "enum"
	ClassSignalStrength = "signal_strength"
	ClassTimestamp      = "timestamp"
	ClassMoisture       = "moisture"
	ClassPlug           = "plug"
	ClassProblem        = "problem"

	StateClassMeasurement = "measurement"
)

// Description carries the metadata shared by every entity platform.
type Description struct {
	// Key is the stable identifier, also used as the unique-id suffix.
	Key string
	// TranslationKey is looked up by the host to render a localized name.
	// By convention it equals Key for all shipped entities.
	TranslationKey string
	DeviceClass    string
	StateClass     string
	Unit           string
	Category       Category
	Icon           string
	// Options enumerates the allowed states of an enum sensor.
	Options []string
}
