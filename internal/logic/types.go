// Package logic contains the pure headlight decision logic.
// This package has NO external dependencies (no GPIO, ADC, MQTT, OS, or time.Sleep).
// Dwell is measured in ticks of a fixed period; wall-clock time is only
// carried through for event timestamps and heartbeats.
package logic

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Mode is the headlight mode chosen by the selector potentiometer.
type Mode string

const (
	ModeForcedOn  Mode = "FORCED_ON"
	ModeForcedOff Mode = "FORCED_OFF"
	ModeAuto      Mode = "AUTO"
)

// Default thresholds.
const (
	DefaultPotOnMax    = 0.33
	DefaultPotOffMin   = 0.66
	DefaultDayLightMin = 0.7
	DefaultDayDwell    = 2000 * time.Millisecond
	DefaultDuskDwell   = 1000 * time.Millisecond
	DefaultTickPeriod  = 10 * time.Millisecond
)

// Thresholds is the fixed configuration of the decision logic.
type Thresholds struct {
	PotOnMax    float64       // selector at or below: forced on
	PotOffMin   float64       // selector at or above: auto
	DayLightMin float64       // ambient above: daylight
	DayDwell    time.Duration // daylight must hold this long before lights go off
	DuskDwell   time.Duration // dusk must hold this long before lights go on
	TickPeriod  time.Duration
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PotOnMax:    DefaultPotOnMax,
		PotOffMin:   DefaultPotOffMin,
		DayLightMin: DefaultDayLightMin,
		DayDwell:    DefaultDayDwell,
		DuskDwell:   DefaultDuskDwell,
		TickPeriod:  DefaultTickPeriod,
	}
}

// Validate reports whether the thresholds describe a usable controller.
func (th Thresholds) Validate() error {
	levels := []struct {
		name string
		v    float64
	}{
		{"pot_on_max", th.PotOnMax},
		{"pot_off_min", th.PotOffMin},
		{"day_light_min", th.DayLightMin},
	}
	for _, l := range levels {
		if math.IsNaN(l.v) || l.v < 0 || l.v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", l.name, l.v)
		}
	}
	if th.PotOnMax >= th.PotOffMin {
		return fmt.Errorf("pot_on_max (%v) must be below pot_off_min (%v)", th.PotOnMax, th.PotOffMin)
	}
	if th.TickPeriod <= 0 {
		return errors.New("tick period must be positive")
	}
	if th.DayDwell <= 0 || th.DuskDwell <= 0 {
		return errors.New("dwell durations must be positive")
	}
	return nil
}

// Input represents a single sample of all controller inputs.
type Input struct {
	Ignition bool    // ignition button held
	Driver   bool    // driver seat occupied
	Pot      float64 // mode selector, nominally [0,1]
	Ambient  float64 // light sensor, nominally [0,1]
	Time     time.Time
}

// Output is the controller decision for one tick.
type Output struct {
	Running           bool
	IgnitionIndicator bool
	Headlight         bool
	Mode              Mode // empty while the engine is not running
	Elapsed           time.Duration
	Pot               float64 // clamped
	Ambient           float64 // clamped
}

// EventType represents a state transition event.
type EventType string

const (
	EventEngineStart  EventType = "ENGINE_START"
	EventEngineStop   EventType = "ENGINE_STOP"
	EventHeadlightOn  EventType = "HEADLIGHT_ON"
	EventHeadlightOff EventType = "HEADLIGHT_OFF"
	EventModeChange   EventType = "MODE_CHANGE"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Mode      Mode
	Running   bool
	Headlight bool
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	EngineStart  int
	EngineStop   int
	HeadlightOn  int
	HeadlightOff int
	ModeChange   int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
