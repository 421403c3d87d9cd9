package logic

import "time"

// Controller owns all mutable decision state and is advanced once per tick.
// It is not safe for concurrent use; the run loop is its only caller.
type Controller struct {
	th         Thresholds
	running    bool
	headlight  bool
	mode       Mode
	hysteresis *Hysteresis

	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewController creates a controller with the engine stopped and the
// headlight off. The startTime is used for calculating uptime in heartbeats.
func NewController(th Thresholds, startTime time.Time) *Controller {
	return &Controller{
		th:            th,
		hysteresis:    NewHysteresis(th),
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Step runs one tick of the decision logic and returns the outputs to apply
// along with any events for transitions that happened on this tick.
func (c *Controller) Step(in Input) (Output, []Event) {
	pot := Clamp(in.Pot)
	ambient := Clamp(in.Ambient)

	wasRunning, wasOn, prevMode := c.running, c.headlight, c.mode

	c.running = UpdateEngine(in.Ignition, in.Driver, c.running)

	if !c.running {
		c.mode = ""
		c.setHeadlight(false)
	} else {
		c.mode = Classify(pot, c.th)
		switch c.mode {
		case ModeForcedOn:
			c.setHeadlight(true)
		case ModeForcedOff:
			c.setHeadlight(false)
		case ModeAuto:
			if prevMode != ModeAuto {
				c.hysteresis.Sync(c.headlight)
			}
			c.headlight = c.hysteresis.Tick(ambient)
		}
	}

	out := Output{
		Running:           c.running,
		IgnitionIndicator: c.running,
		Headlight:         c.headlight,
		Mode:              c.mode,
		Elapsed:           c.hysteresis.Elapsed(),
		Pot:               pot,
		Ambient:           ambient,
	}

	var events []Event
	emit := func(t EventType) {
		events = append(events, Event{
			Timestamp: in.Time,
			Type:      t,
			Mode:      c.mode,
			Running:   c.running,
			Headlight: c.headlight,
		})
	}

	// Order: engine, mode, headlight.
	if c.running != wasRunning {
		if c.running {
			emit(EventEngineStart)
		} else {
			emit(EventEngineStop)
		}
	}
	if c.running && c.mode != prevMode {
		emit(EventModeChange)
	}
	if c.headlight != wasOn {
		if c.headlight {
			emit(EventHeadlightOn)
		} else {
			emit(EventHeadlightOff)
		}
	}

	for _, e := range events {
		switch e.Type {
		case EventEngineStart:
			c.eventCounts.EngineStart++
		case EventEngineStop:
			c.eventCounts.EngineStop++
		case EventHeadlightOn:
			c.eventCounts.HeadlightOn++
		case EventHeadlightOff:
			c.eventCounts.HeadlightOff++
		case EventModeChange:
			c.eventCounts.ModeChange++
		}
	}

	return out, events
}

// setHeadlight applies a decision made outside the auto timer.
func (c *Controller) setHeadlight(on bool) {
	c.headlight = on
	c.hysteresis.Sync(on)
}

// Running reports whether the engine is latched on.
func (c *Controller) Running() bool {
	return c.running
}

// Headlight reports the current headlight decision.
func (c *Controller) Headlight() bool {
	return c.headlight
}

// Mode returns the last classified mode, empty while the engine is stopped.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Elapsed returns the auto-mode dwell accumulated so far.
func (c *Controller) Elapsed() time.Duration {
	return c.hysteresis.Elapsed()
}

// HysteresisState returns the auto-mode timer state.
func (c *Controller) HysteresisState() HysteresisState {
	return c.hysteresis.State()
}

// Thresholds returns the configuration the controller was built with.
func (c *Controller) Thresholds() Thresholds {
	return c.th
}

// EventCountsSnapshot returns a copy of the event counts.
func (c *Controller) EventCountsSnapshot() EventCounts {
	return c.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.eventCounts,
	}
}
