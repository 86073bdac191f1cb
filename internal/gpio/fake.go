package gpio

import "errors"

// FakeMotionReader is a test double that returns scripted motion levels.
type FakeMotionReader struct {
	// Samples contains scripted levels to return.
	// Each call to Read() consumes the next sample.
	Samples []bool

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeMotionReader creates a FakeMotionReader with the given samples.
func NewFakeMotionReader(samples []bool) *FakeMotionReader {
	return &FakeMotionReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeMotionReader) Read() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeMotionReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeMotionReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeOutput records every level written to it.
type FakeOutput struct {
	// Levels contains every level passed to SetLevel, in order.
	Levels []uint8

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeOutput creates an empty FakeOutput.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// SetLevel records level.
func (f *FakeOutput) SetLevel(level uint8) {
	f.Levels = append(f.Levels, level)
}

// Level returns the most recently written level, or 0 if none.
func (f *FakeOutput) Level() uint8 {
	if len(f.Levels) == 0 {
		return 0
	}
	return f.Levels[len(f.Levels)-1]
}

// Close marks the output as closed and records a final 0 level.
func (f *FakeOutput) Close() error {
	f.Levels = append(f.Levels, 0)
	f.Closed = true
	return nil
}
