package motion

import "time"

// Tracker follows the raw motion level and reports transitions.
// The first sample establishes a baseline and produces no event.
type Tracker struct {
	state      State
	baselined  bool
	counts     EventCounts
	since      time.Time
	lastReport time.Time
}

// NewTracker creates a tracker with no baseline.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Process takes a new sample and returns the transition it caused, if any.
func (t *Tracker) Process(motion bool, now time.Time) *Event {
	newState := boolToState(motion)

	if !t.baselined {
		t.state = newState
		t.since = now
		t.lastReport = now
		t.baselined = true
		return nil
	}

	if newState == t.state {
		return nil
	}

	t.state = newState
	t.since = now

	event := &Event{Timestamp: now, State: newState}
	if newState == StateOn {
		event.Type = EventDetected
		t.counts.Detected++
	} else {
		event.Type = EventCleared
		t.counts.Cleared++
	}
	return event
}

// ReportDue reports whether a periodic status report is due at now and, if
// so, restarts the interval. The first report falls interval after the
// baseline. Returns false before the baseline or if interval <= 0.
func (t *Tracker) ReportDue(now time.Time, interval time.Duration) bool {
	if interval <= 0 || !t.baselined {
		return false
	}
	if now.Sub(t.lastReport) < interval {
		return false
	}
	t.lastReport = now
	return true
}

// IsBaselined returns whether the first sample has been seen.
func (t *Tracker) IsBaselined() bool {
	return t.baselined
}

// State returns the current state, or "" before the baseline.
func (t *Tracker) State() State {
	return t.state
}

// Motion reports whether motion is currently present.
func (t *Tracker) Motion() bool {
	return t.state == StateOn
}

// Since returns when the current state was entered.
func (t *Tracker) Since() time.Time {
	return t.since
}

// Counts returns a copy of the event counters.
func (t *Tracker) Counts() EventCounts {
	return t.counts
}

func boolToState(b bool) State {
	if b {
		return StateOn
	}
	return StateOff
}
