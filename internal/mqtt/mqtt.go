// Package mqtt provides one-way MQTT telemetry with abstraction for testing.
// Nothing received from the broker affects the device.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/pulse-motion/internal/motion"
)

// Topic is the MQTT topic for motion events.
const Topic = "home/pulse-motion/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/pulse-motion/system"

// ClientID identifies the daemon to the broker.
const ClientID = "pulse-motion"

// Delivery guarantees per topic. Motion events are frequent and superseded
// by the next one; lifecycle events must arrive.
const (
	QoSMotion byte = 0
	QoSSystem byte = 1
)

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a motion event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event motion.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "STATUS", "SHUTDOWN", "RECONNECTED"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Motion MotionPayload `json:"motion"`
}

// MotionPayload contains the motion event details.
type MotionPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	State     string `json:"state"`
}

// FormatPayload creates the JSON payload for a motion event.
func FormatPayload(event motion.Event) ([]byte, error) {
	payload := Payload{
		Motion: MotionPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			State:     string(event.State),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
// A zero Timestamp is omitted.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Event:  event.Event,
			Reason: event.Reason,
		},
	}
	if !event.Timestamp.IsZero() {
		payload.System.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(payload)
}

// WillPayload is the last-will message the broker publishes if the daemon
// drops off without a clean shutdown. It carries no timestamp because it is
// registered at connect time and delivered arbitrarily later.
func WillPayload() []byte {
	data, _ := FormatSystemPayload(SystemEvent{Event: "SHUTDOWN", Reason: "MQTT_DISCONNECT"})
	return data
}

// NopPublisher discards everything. Used when no broker is configured.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(motion.Event) error { return nil }

// PublishSystem discards the event.
func (NopPublisher) PublishSystem(SystemEvent) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }

// IsConnected always reports false.
func (NopPublisher) IsConnected() bool { return false }
