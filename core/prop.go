package core

import "time"

// StateCode is the numeric activity state reported by the vacuum.
type StateCode int

const (
	StateUnknown          StateCode = 0
	StateInitiating       StateCode = 1
	StateSleeping         StateCode = 2
	StateIdle             StateCode = 3
	StateRemoteControl    StateCode = 4
	StateCleaning         StateCode = 5
	StateReturningDock    StateCode = 6
	StateManualMode       StateCode = 7
	StateCharging         StateCode = 8
	StateChargingError    StateCode = 9
	StatePaused           StateCode = 10
	StateSpotCleaning     StateCode = 11
	StateError            StateCode = 12
	StateShuttingDown     StateCode = 13
	StateUpdating         StateCode = 14
	StateDocking          StateCode = 15
	StateGoingTo          StateCode = 16
	StateZoneCleaning     StateCode = 17
	StateSegmentCleaning  StateCode = 18
	StateEmptyingDustbin  StateCode = 22
	StateWashingMop       StateCode = 23
	StateChargingComplete StateCode = 55
	StateDeviceOffline    StateCode = 100
)

// InCleaningCode tells what kind of cleaning run is active, if any.
type InCleaningCode int

const (
	CleaningNone    InCleaningCode = 0
	CleaningZone    InCleaningCode = 2
	CleaningSegment InCleaningCode = 3
	CleaningSpot    InCleaningCode = 4
)

// Status is the periodic status record the vacuum reports. Pointer fields
// are optional: not every model reports every attribute.
type Status struct {
	State            StateCode      `json:"state"`
	Battery          int            `json:"battery"`
	ErrorCode        int            `json:"error_code"`
	CleanTime        int            `json:"clean_time"`
	CleanArea        int            `json:"clean_area"`
	FanPower         int            `json:"fan_power"`
	InCleaning       InCleaningCode `json:"in_cleaning"`
	WaterBoxCarriage bool           `json:"water_box_carriage_status"`
	WaterBoxAttached bool           `json:"water_box_status"`

	WaterPercent   *int       `json:"water_percent,omitempty"`
	CarpetMode     *int       `json:"carpet_mode,omitempty"`
	CarpetBoost    *bool      `json:"carpet_boost,omitempty"`
	DNDEnabled     *bool      `json:"dnd_enabled,omitempty"`
	ChildLock      *bool      `json:"child_lock,omitempty"`
	WifiRSSI       *int       `json:"wifi_rssi,omitempty"`
	SoundVolume    *int       `json:"sound_volume,omitempty"`
	CleaningPasses *int       `json:"cleaning_passes,omitempty"`
	CleaningMode   *string    `json:"cleaning_mode,omitempty"`
	DustbinState   *string    `json:"dustbin_full,omitempty"`
	ZoneProgress   *int       `json:"zone_progress,omitempty"`
	LastErrorTime  *time.Time `json:"last_error_time,omitempty"`
}

// Docked reports whether the vacuum is sitting on the dock.
func (s Status) Docked() bool {
	return s.State == StateCharging || s.State == StateChargingComplete
}

// ReadyForCommand reports whether the vacuum can accept a new cleaning job.
func (s Status) ReadyForCommand() bool {
	switch s.State {
	case StateIdle, StateCharging, StateChargingComplete:
		return true
	}
	return false
}

// Consumable carries the remaining lifetime of each wear part, in seconds.
type Consumable struct {
	MainBrushTimeLeft *int `json:"main_brush_time_left,omitempty"`
	SideBrushTimeLeft *int `json:"side_brush_time_left,omitempty"`
	FilterTimeLeft    *int `json:"filter_time_left,omitempty"`
	SensorTimeLeft    *int `json:"sensor_time_left,omitempty"`
}

// MaintenanceAlerts counts the consumables with less than a day of life left.
func (c Consumable) MaintenanceAlerts() int {
	const day = 86400
	n := 0
	for _, left := range []*int{
		c.MainBrushTimeLeft,
		c.SideBrushTimeLeft,
		c.FilterTimeLeft,
		c.SensorTimeLeft,
	} {
		if left != nil && *left < day {
			n++
		}
	}
	return n
}

// CleanSummary is the lifetime cleaning record.
type CleanSummary struct {
	CleanTime  int `json:"clean_time"`
	CleanArea  int `json:"clean_area"`
	CleanCount int `json:"clean_count"`
}

// DeviceProp bundles everything one poll of the device yields.
type DeviceProp struct {
	Status       Status       `json:"status"`
	Consumable   Consumable   `json:"consumable"`
	CleanSummary CleanSummary `json:"clean_summary"`
}
