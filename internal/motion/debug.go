package motion

import (
	"log"
	"time"
)

// DefaultDebugInterval is the minimum spacing between debug lines per pin.
const DefaultDebugInterval = 5000 * time.Millisecond

// DebugEmitter logs raw sensor readings at most once per interval per pin.
// Times are free-running uint32 milliseconds since process start; subtraction
// wraps safely. A pin that has never been logged counts as logged at 0, so
// nothing is written until interval has passed since start.
type DebugEmitter struct {
	interval uint32
	logger   *log.Logger
	last     map[int]uint32
}

// NewDebugEmitter creates an emitter writing to logger.
// A nil logger uses the standard logger.
func NewDebugEmitter(interval time.Duration, logger *log.Logger) *DebugEmitter {
	if logger == nil {
		logger = log.Default()
	}
	return &DebugEmitter{
		interval: uint32(interval.Milliseconds()),
		logger:   logger,
		last:     make(map[int]uint32),
	}
}

// Emit logs the reading if at least interval has elapsed since the pin's
// previous line. Returns whether a line was written.
func (e *DebugEmitter) Emit(pin int, state bool, nowMs uint32) bool {
	if nowMs-e.last[pin] < e.interval {
		return false
	}

	level := 0
	if state {
		level = 1
	}
	e.logger.Printf("PIR sensor reading: %d (pin %d)", level, pin)
	e.last[pin] = nowMs
	return true
}
