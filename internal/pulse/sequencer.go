package pulse

// Sequencer produces the heartbeat waveform on a single output.
// Not safe for concurrent use; it is owned by the control loop.
type Sequencer struct {
	out Output
	now Clock

	active     bool
	intensity  int
	phase      Phase
	phaseStart uint32 // only meaningful in Gap1 and Gap2
	beats      uint64
}

// New creates an inactive sequencer driving out, timed by now.
func New(out Output, now Clock) *Sequencer {
	return &Sequencer{
		out:   out,
		now:   now,
		phase: RiseA,
	}
}

// Start activates the sequencer and restarts the cycle from RiseA at zero
// intensity, even when it is already running.
func (s *Sequencer) Start() {
	s.active = true
	s.intensity = 0
	s.phase = RiseA
	s.phaseStart = s.now()
}

// Stop deactivates the sequencer and drives the output to 0 immediately.
func (s *Sequencer) Stop() {
	s.active = false
	s.intensity = 0
	s.phase = RiseA
	s.out.SetLevel(0)
}

// Update advances the waveform by exactly one step and writes the resulting
// intensity to the output. It does nothing while inactive and never blocks.
//
// Ramp phases advance once per call, so their speed follows the caller's tick
// rate. Gap phases are measured against the clock.
func (s *Sequencer) Update() {
	if !s.active {
		return
	}

	now := s.now()
	st := transitions[s.phase]

	switch {
	case st.dwell > 0:
		if now-s.phaseStart >= st.dwell {
			if s.phase == Gap2 {
				s.beats++
			}
			s.phase = st.next
		}

	case st.delta > 0:
		s.intensity += st.delta
		if s.intensity >= st.limit {
			s.intensity = st.limit
			s.phase = st.next
		}

	default:
		s.intensity += st.delta
		if s.intensity <= st.limit {
			s.intensity = st.limit
			s.phase = st.next
			s.phaseStart = now
		}
	}

	s.out.SetLevel(uint8(s.intensity))
}

// IsActive reports whether the last Start/Stop call was Start.
func (s *Sequencer) IsActive() bool {
	return s.active
}

// Phase returns the current waveform phase.
func (s *Sequencer) Phase() Phase {
	return s.phase
}

// Intensity returns the level most recently computed for the output.
func (s *Sequencer) Intensity() uint8 {
	return uint8(s.intensity)
}

// Beats returns the number of completed heartbeats since New.
func (s *Sequencer) Beats() uint64 {
	return s.beats
}
