// Package pulse contains the heartbeat LED sequencer and the attention flasher.
// The sequencer has NO external dependencies (no GPIO, OS, or time.Sleep).
// Time is always injectable via a Clock.
package pulse

// Clock returns free-running monotonic milliseconds. The value wraps at 2^32;
// elapsed time must always be computed as now-start in uint32 arithmetic.
type Clock func() uint32

// Output is a PWM-capable sink. SetLevel is fire-and-forget.
type Output interface {
	SetLevel(level uint8)
}

// Phase is one segment of the double-pulse waveform.
type Phase int

const (
	RiseA Phase = iota // first beat rise
	FallA              // first beat fall
	Gap1               // short pause between the two beats
	RiseB              // second beat rise
	FallB              // second beat fall
	Gap2               // long pause before the next heartbeat
)

var phaseNames = [...]string{
	RiseA: "RISE_A",
	FallA: "FALL_A",
	Gap1:  "GAP_1",
	RiseB: "RISE_B",
	FallB: "FALL_B",
	Gap2:  "GAP_2",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "UNKNOWN"
	}
	return phaseNames[p]
}

// Waveform constants.
const (
	RiseStep = 15
	FallStep = 8

	FirstPeak  = 255
	SecondPeak = 180

	ShortGapMs = 120
	LongGapMs  = 800
)

// step describes what one Update does in a phase.
// Ramp phases move intensity by delta until it reaches limit.
// Gap phases (dwell > 0) hold intensity until dwell ms have elapsed.
type step struct {
	delta int
	limit int
	dwell uint32
	next  Phase
}

var transitions = [...]step{
	RiseA: {delta: RiseStep, limit: FirstPeak, next: FallA},
	FallA: {delta: -FallStep, limit: 0, next: Gap1},
	Gap1:  {dwell: ShortGapMs, next: RiseB},
	RiseB: {delta: RiseStep, limit: SecondPeak, next: FallB},
	FallB: {delta: -FallStep, limit: 0, next: Gap2},
	Gap2:  {dwell: LongGapMs, next: RiseA},
}
