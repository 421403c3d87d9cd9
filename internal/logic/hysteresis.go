package logic

import "time"

// HysteresisState names where the auto-mode timer is.
type HysteresisState string

const (
	StateIdleOff         HysteresisState = "IDLE_OFF"
	StateAccumulatingOn  HysteresisState = "ACCUMULATING_TO_ON"
	StateIdleOn          HysteresisState = "IDLE_ON"
	StateAccumulatingOff HysteresisState = "ACCUMULATING_TO_OFF"
)

// Hysteresis switches the headlight from ambient light in auto mode.
// A transition fires only after the opposing light condition has held for
// its full dwell without interruption. Any tick that agrees with the
// current headlight state discards the progress.
type Hysteresis struct {
	dayLightMin float64
	dayDwell    time.Duration
	duskDwell   time.Duration
	tickPeriod  time.Duration

	on      bool
	elapsed time.Duration
}

// NewHysteresis creates a timer in the Idle-Off state.
func NewHysteresis(th Thresholds) *Hysteresis {
	return &Hysteresis{
		dayLightMin: th.DayLightMin,
		dayDwell:    th.DayDwell,
		duskDwell:   th.DuskDwell,
		tickPeriod:  th.TickPeriod,
	}
}

// Tick advances the timer by one tick period and returns the headlight state.
func (h *Hysteresis) Tick(ambient float64) bool {
	daylight := Clamp(ambient) > h.dayLightMin

	// Light already matches the headlight: nothing pending.
	if daylight != h.on {
		h.elapsed = 0
		return h.on
	}

	h.elapsed += h.tickPeriod
	dwell := h.duskDwell
	if h.on {
		dwell = h.dayDwell
	}
	if h.elapsed >= dwell {
		h.on = !h.on
		h.elapsed = 0
	}
	return h.on
}

// Sync adopts the headlight state set outside auto mode and clears progress.
func (h *Hysteresis) Sync(on bool) {
	h.on = on
	h.elapsed = 0
}

// Headlight returns the headlight state the timer holds.
func (h *Hysteresis) Headlight() bool {
	return h.on
}

// Elapsed returns the continuous dwell accumulated so far.
func (h *Hysteresis) Elapsed() time.Duration {
	return h.elapsed
}

// State returns the current timer state.
func (h *Hysteresis) State() HysteresisState {
	switch {
	case h.on && h.elapsed > 0:
		return StateAccumulatingOff
	case h.on:
		return StateIdleOn
	case h.elapsed > 0:
		return StateAccumulatingOn
	default:
		return StateIdleOff
	}
}
