// Package status provides a thread-safe status tracker for the headlight controller.
// The tick loop writes it; HTTP handlers and MQTT lifecycle events read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/headlight-controller/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains controller configuration for display.
type Config struct {
	TickMs      int64
	PotOnMax    float64
	PotOffMin   float64
	DayLightMin float64
	DayDwellMs  int64
	DuskDwellMs int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	DiagPort    string // empty = stdout or disabled
}

// ConfigFromThresholds fills the threshold fields of a Config.
func ConfigFromThresholds(th logic.Thresholds) Config {
	return Config{
		TickMs:      th.TickPeriod.Milliseconds(),
		PotOnMax:    th.PotOnMax,
		PotOffMin:   th.PotOffMin,
		DayLightMin: th.DayLightMin,
		DayDwellMs:  th.DayDwell.Milliseconds(),
		DuskDwellMs: th.DuskDwell.Milliseconds(),
	}
}

// Snapshot is a point-in-time view of controller state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Running       bool
	Headlight     bool
	Mode          logic.Mode
	Hysteresis    logic.HysteresisState
	Elapsed       time.Duration
	Pot           float64
	Ambient       float64
	Ticks         int64
	ReadErrors    int64
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the controller started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Ready reports whether at least one tick has been processed.
func (s Snapshot) Ready() bool {
	return s.Ticks > 0
}

// Tracker holds mutable controller state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update records the outputs of one tick.
// Called from the run loop on every tick.
func (t *Tracker) Update(out logic.Output, hs logic.HysteresisState, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.Running = out.Running
	t.snap.Headlight = out.Headlight
	t.snap.Mode = out.Mode
	t.snap.Hysteresis = hs
	t.snap.Elapsed = out.Elapsed
	t.snap.Pot = out.Pot
	t.snap.Ambient = out.Ambient
	t.snap.Counts = counts
	t.snap.Ticks++
	t.mu.Unlock()
}

// RecordReadError counts a tick skipped because the inputs could not be read.
func (t *Tracker) RecordReadError() {
	t.mu.Lock()
	t.snap.ReadErrors++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the controller state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
