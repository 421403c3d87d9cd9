package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/headlight-controller/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"level": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"mode": status.ModeString,
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Headlight Controller</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Headlight Controller</h1>

<h2>State</h2>
<table>
<tr><th>Engine</th><td id="engine" class="{{if .Running}}on{{else}}off{{end}}">{{if .Running}}RUNNING{{else}}STOPPED{{end}}</td></tr>
<tr><th>Headlights</th><td id="headlight" class="{{if .Headlight}}on{{else}}off{{end}}">{{if .Headlight}}ON{{else}}OFF{{end}}</td></tr>
<tr><th>Mode</th><td id="mode">{{mode .Snapshot}}</td></tr>
<tr><th>Auto timer</th><td>{{.Hysteresis}} ({{.Elapsed}})</td></tr>
<tr><th>Selector</th><td>{{level .Pot}}</td></tr>
<tr><th>Ambient</th><td>{{level .Ambient}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Engine start</th><td>{{.Counts.EngineStart}}</td></tr>
<tr><th>Engine stop</th><td>{{.Counts.EngineStop}}</td></tr>
<tr><th>Headlight on</th><td>{{.Counts.HeadlightOn}}</td></tr>
<tr><th>Headlight off</th><td>{{.Counts.HeadlightOff}}</td></tr>
<tr><th>Mode change</th><td>{{.Counts.ModeChange}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Ticks</th><td>{{.Ticks}} ({{.ReadErrors}} read errors)</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Selector bands</th><td>on &le; {{.Config.PotOnMax}} &lt; off &lt; {{.Config.PotOffMin}} &le; auto</td></tr>
<tr><th>Daylight above</th><td>{{.Config.DayLightMin}}</td></tr>
<tr><th>Dwell</th><td>day {{.Config.DayDwellMs}}ms, dusk {{.Config.DuskDwellMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("render status page: %v", err)
	}
}
