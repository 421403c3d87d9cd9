package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Engine        string       `json:"engine"`
	Headlight     string       `json:"headlight"`
	Mode          string       `json:"mode"`
	Hysteresis    string       `json:"hysteresis"`
	ElapsedMs     int64        `json:"elapsed_ms"`
	Pot           float64      `json:"pot"`
	Ambient       float64      `json:"ambient"`
	Ready         bool         `json:"ready"`
	Ticks         int64        `json:"ticks"`
	ReadErrors    int64        `json:"read_errors"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	EngineStart  int `json:"engine_start"`
	EngineStop   int `json:"engine_stop"`
	HeadlightOn  int `json:"headlight_on"`
	HeadlightOff int `json:"headlight_off"`
	ModeChange   int `json:"mode_change"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of controller config.
type ConfigJSON struct {
	TickMs      int64   `json:"tick_ms"`
	PotOnMax    float64 `json:"pot_on_max"`
	PotOffMin   float64 `json:"pot_off_min"`
	DayLightMin float64 `json:"day_light_min"`
	DayDwellMs  int64   `json:"day_dwell_ms"`
	DuskDwellMs int64   `json:"dusk_dwell_ms"`
	HeartbeatMs int64   `json:"heartbeat_ms"`
	Broker      string  `json:"broker"`
	HTTPAddr    string  `json:"http_addr"`
	DiagPort    string  `json:"diag_port,omitempty"`
}

// ModeString renders the mode, "NONE" while the engine is stopped.
func ModeString(snap Snapshot) string {
	if snap.Mode == "" {
		return "NONE"
	}
	return string(snap.Mode)
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func engine(running bool) string {
	if running {
		return "RUNNING"
	}
	return "STOPPED"
}

func buildInner(snap Snapshot) StatusInner {
	hs := string(snap.Hysteresis)
	if hs == "" {
		hs = "UNKNOWN"
	}

	return StatusInner{
		Engine:        engine(snap.Running),
		Headlight:     onOff(snap.Headlight),
		Mode:          ModeString(snap),
		Hysteresis:    hs,
		ElapsedMs:     snap.Elapsed.Milliseconds(),
		Pot:           snap.Pot,
		Ambient:       snap.Ambient,
		Ready:         snap.Ready(),
		Ticks:         snap.Ticks,
		ReadErrors:    snap.ReadErrors,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			EngineStart:  snap.Counts.EngineStart,
			EngineStop:   snap.Counts.EngineStop,
			HeadlightOn:  snap.Counts.HeadlightOn,
			HeadlightOff: snap.Counts.HeadlightOff,
			ModeChange:   snap.Counts.ModeChange,
		},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			PotOnMax:    snap.Config.PotOnMax,
			PotOffMin:   snap.Config.PotOffMin,
			DayLightMin: snap.Config.DayLightMin,
			DayDwellMs:  snap.Config.DayDwellMs,
			DuskDwellMs: snap.Config.DuskDwellMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			DiagPort:    snap.Config.DiagPort,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
