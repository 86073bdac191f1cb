// Package motion tracks the PIR sensor level and throttles its debug output.
// This package has NO hardware dependencies. Time is always injectable.
package motion

import "time"

// State represents the logical motion state.
type State string

const (
	StateOn  State = "ON"
	StateOff State = "OFF"
)

// EventType represents a motion transition.
type EventType string

const (
	EventDetected EventType = "MOTION_DETECTED"
	EventCleared  EventType = "MOTION_CLEARED"
)

// Event represents a motion transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Detected int
	Cleared  int
}
