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
	Motion        string       `json:"motion"`
	MotionSince   string       `json:"motion_since,omitempty"`
	Ready         bool         `json:"ready"`
	Heartbeat     PulseJSON    `json:"heartbeat"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// PulseJSON is the JSON representation of the heartbeat sequencer.
type PulseJSON struct {
	Active    bool   `json:"active"`
	Phase     string `json:"phase"`
	Intensity uint8  `json:"intensity"`
	Beats     uint64 `json:"beats"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Detected int `json:"motion_detected"`
	Cleared  int `json:"motion_cleared"`
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

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs       int64  `json:"tick_ms"`
	PollMs       int64  `json:"poll_ms"`
	DebugMs      int64  `json:"debug_ms"`
	StatusMs     int64  `json:"status_ms"`
	PinMotion    int    `json:"pin_motion"`
	PinLED       int    `json:"pin_led"`
	PWMFreq      int    `json:"pwm_freq"`
	FollowMotion bool   `json:"follow_motion"`
	Flash        bool   `json:"flash"`
	Broker       string `json:"broker"`
	WSBroker     string `json:"ws_broker,omitempty"`
	HTTPAddr     string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	m := string(snap.Motion)
	if m == "" {
		m = "UNKNOWN"
	}
	phase := snap.Pulse.Phase
	if phase == "" {
		phase = "IDLE"
	}

	inner := StatusInner{
		Motion: m,
		Ready:  snap.Baselined,
		Heartbeat: PulseJSON{
			Active:    snap.Pulse.Active,
			Phase:     phase,
			Intensity: snap.Pulse.Intensity,
			Beats:     snap.Pulse.Beats,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Detected: snap.Counts.Detected,
			Cleared:  snap.Counts.Cleared,
		},
		Config: ConfigJSON{
			TickMs:       snap.Config.TickMs,
			PollMs:       snap.Config.PollMs,
			DebugMs:      snap.Config.DebugMs,
			StatusMs:     snap.Config.StatusMs,
			PinMotion:    snap.Config.PinMotion,
			PinLED:       snap.Config.PinLED,
			PWMFreq:      snap.Config.PWMFreq,
			FollowMotion: snap.Config.FollowMotion,
			Flash:        snap.Config.Flash,
			Broker:       snap.Config.Broker,
			WSBroker:     snap.Config.WSBroker,
			HTTPAddr:     snap.Config.HTTPAddr,
		},
	}
	if !snap.MotionSince.IsZero() {
		inner.MotionSince = snap.MotionSince.UTC().Format(time.RFC3339)
	}
	return inner
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
