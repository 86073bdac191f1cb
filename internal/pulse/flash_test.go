package pulse

import (
	"testing"
	"time"
)

func TestFlashSequence(t *testing.T) {
	out := &recordOutput{}
	var slept []time.Duration

	Flash(out, func(d time.Duration) { slept = append(slept, d) })

	want := []uint8{255, 0, 255, 0, 255, 0}
	if len(out.levels) != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), len(out.levels))
	}
	for i, l := range want {
		if out.levels[i] != l {
			t.Errorf("write %d: expected %d, got %d", i, l, out.levels[i])
		}
	}

	var total time.Duration
	for _, d := range slept {
		if d != FlashPeriod {
			t.Errorf("expected sleep of %v, got %v", FlashPeriod, d)
		}
		total += d
	}
	if total != 600*time.Millisecond {
		t.Errorf("expected 600ms total blocking, got %v", total)
	}
}

func TestFlashDoesNotTouchSequencer(t *testing.T) {
	s, out, _ := newTestSequencer(0)
	s.Start()
	for i := 0; i < 5; i++ {
		s.Update()
	}

	Flash(out, func(time.Duration) {})

	if s.Phase() != RiseA || s.Intensity() != 5*RiseStep {
		t.Errorf("flash altered sequencer: phase=%s intensity=%d", s.Phase(), s.Intensity())
	}
	if !s.IsActive() {
		t.Error("flash altered sequencer activity")
	}
}
