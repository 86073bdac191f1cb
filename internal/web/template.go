package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/pulse-motion/internal/mqtt"
	"github.com/sweeney/pulse-motion/internal/status"
)

// mqttJS is the browser MQTT client loaded when the live page is enabled.
const mqttJS = "https://unpkg.com/mqtt@5/dist/mqtt.min.js"

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
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	// percent converts a 0..255 PWM level to a brightness percentage.
	"percent": func(level uint8) int {
		return int(level) * 100 / 255
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{if not .Config.WSBroker}}<meta http-equiv="refresh" content="5">{{end}}
<title>Pulse Motion</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Pulse Motion{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>Motion</h2>
<table>
<tr><th>PIR</th><td id="motion-state" class="{{if eq (stateOrUnknown (printf "%s" .Motion)) "ON"}}on{{else if eq (stateOrUnknown (printf "%s" .Motion)) "OFF"}}off{{else}}unknown{{end}}">{{stateOrUnknown (printf "%s" .Motion)}}</td></tr>
{{if not .MotionSince.IsZero}}<tr><th>Since</th><td>{{.MotionSince.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>{{end}}
<tr><th>Ready</th><td>{{if .Baselined}}yes{{else}}no{{end}}</td></tr>
<tr><th>Detected</th><td id="motion-detected">{{.Counts.Detected}}</td></tr>
<tr><th>Cleared</th><td id="motion-cleared">{{.Counts.Cleared}}</td></tr>
</table>

<h2>Heartbeat</h2>
<table>
<tr><th>LED</th><td id="pulse-state" class="{{if .Pulse.Active}}on{{else}}off{{end}}">{{if .Pulse.Active}}beating{{else}}idle{{end}}</td></tr>
<tr><th>Phase</th><td>{{if .Pulse.Phase}}{{.Pulse.Phase}}{{else}}IDLE{{end}}</td></tr>
<tr><th>Brightness</th><td>{{percent .Pulse.Intensity}}%</td></tr>
<tr><th>Beats</th><td id="pulse-beats">{{.Pulse.Beats}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Status report</th><td>{{if .Config.StatusMs}}every {{.Config.StatusMs}}ms{{else}}disabled{{end}}</td></tr>
<tr><th>Pins</th><td>PIR {{.Config.PinMotion}}, LED {{.Config.PinLED}} @ {{.Config.PWMFreq}}Hz</td></tr>
<tr><th>Follow motion</th><td>{{if .Config.FollowMotion}}yes{{else}}no{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Config.WSBroker}}
<script src="{{.MQTTJS}}"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var eventsTopic = "{{.EventsTopic}}";
  var systemTopic = "{{.SystemTopic}}";
  var dot = document.getElementById("live-dot");
  var motionEl = document.getElementById("motion-state");
  var pulseEl = document.getElementById("pulse-state");

  function setText(id, v) {
    var el = document.getElementById(id);
    if (el && v !== undefined) { el.textContent = v; }
  }

  function setMotion(state) {
    motionEl.textContent = state;
    motionEl.className = state === "ON" ? "on" : state === "OFF" ? "off" : "unknown";
  }

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe([eventsTopic, systemTopic]);
  });
  client.on("reconnect", function() { setDot("pending", "reconnecting"); });
  client.on("offline", function() { setDot("err", "offline"); });
  client.on("error", function() { setDot("err", "error"); });

  client.on("message", function(t, payload) {
    try {
      var msg = JSON.parse(payload.toString());
      if (t === eventsTopic && msg.motion) {
        setMotion(msg.motion.state);
      } else if (t === systemTopic && msg.status) {
        setMotion(msg.status.motion);
        setText("motion-detected", msg.status.event_counts.motion_detected);
        setText("motion-cleared", msg.status.event_counts.motion_cleared);
        setText("pulse-beats", msg.status.heartbeat.beats);
        pulseEl.textContent = msg.status.heartbeat.active ? "beating" : "idle";
        pulseEl.className = msg.status.heartbeat.active ? "on" : "off";
      }
    } catch (e) {}
  });
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime      time.Duration
		MQTTJS      string
		EventsTopic string
		SystemTopic string
	}{
		Snapshot:    snap,
		Uptime:      snap.Uptime(),
		MQTTJS:      mqttJS,
		EventsTopic: mqtt.Topic,
		SystemTopic: mqtt.TopicSystem,
	}
	indexTmpl.Execute(w, data)
}
