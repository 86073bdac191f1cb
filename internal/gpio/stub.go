//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealMotionReader is not available on non-Linux platforms.
type RealMotionReader struct{}

// NewMotionReader returns an error on non-Linux platforms.
func NewMotionReader(pin int) (*RealMotionReader, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealMotionReader) Read() (bool, error) {
	return false, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealMotionReader) Close() error {
	return nil
}

// PWMOutput is not available on non-Linux platforms.
type PWMOutput struct{}

// NewPWMOutput returns an error on non-Linux platforms.
func NewPWMOutput(pin, freqHz int) (*PWMOutput, error) {
	return nil, errUnsupported
}

// SetLevel is a no-op on non-Linux platforms.
func (o *PWMOutput) SetLevel(level uint8) {}

// Close is not implemented on non-Linux platforms.
func (o *PWMOutput) Close() error {
	return nil
}
