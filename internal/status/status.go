// Package status provides a thread-safe status tracker for the pulse-motion daemon.
// It is written by the control loop and read by HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/pulse-motion/internal/motion"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	TickMs       int64
	PollMs       int64
	DebugMs      int64
	StatusMs     int64 // periodic STATUS telemetry interval (0 = disabled)
	PinMotion    int
	PinLED       int
	PWMFreq      int
	FollowMotion bool
	Flash        bool
	Broker       string
	WSBroker     string // websocket broker URL for the live page (empty = disabled)
	HTTPAddr     string
}

// Pulse is the heartbeat sequencer state at the last update.
type Pulse struct {
	Active    bool
	Phase     string
	Intensity uint8
	Beats     uint64
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Motion        motion.State
	MotionSince   time.Time
	Baselined     bool
	Counts        motion.EventCounts
	Pulse         Pulse
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
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

// UpdateMotion sets the motion state, baseline status and event counts.
func (t *Tracker) UpdateMotion(state motion.State, since time.Time, baselined bool, counts motion.EventCounts) {
	t.mu.Lock()
	t.snap.Motion = state
	t.snap.MotionSince = since
	t.snap.Baselined = baselined
	t.snap.Counts = counts
	t.mu.Unlock()
}

// UpdatePulse sets the heartbeat sequencer state.
func (t *Tracker) UpdatePulse(p Pulse) {
	t.mu.Lock()
	t.snap.Pulse = p
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

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
