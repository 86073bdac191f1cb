package pulse

import "time"

// Attention flash timing.
const (
	FlashCount  = 3
	FlashPeriod = 100 * time.Millisecond
)

// Flash blinks out fully on and off FlashCount times, holding each level for
// FlashPeriod. It BLOCKS for about 600ms and must never be called from
// Sequencer.Update. It shares no state with any Sequencer.
func Flash(out Output, sleep func(time.Duration)) {
	for i := 0; i < FlashCount; i++ {
		out.SetLevel(255)
		sleep(FlashPeriod)
		out.SetLevel(0)
		sleep(FlashPeriod)
	}
}
