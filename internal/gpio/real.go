//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealMotionReader reads the PIR sensor using the Linux GPIO character device.
type RealMotionReader struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	pin  int
}

// NewMotionReader configures pin as an input for the PIR sensor.
func NewMotionReader(pin int) (*RealMotionReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Pull-down keeps the line low while the PIR module is warming up
	// or disconnected.
	line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request motion pin %d: %w", pin, err)
	}

	return &RealMotionReader{
		chip: chip,
		line: line,
		pin:  pin,
	}, nil
}

// Read returns true while the PIR output is high.
func (r *RealMotionReader) Read() (bool, error) {
	v, err := r.line.Value()
	if err != nil {
		return false, fmt.Errorf("read motion pin %d: %w", r.pin, err)
	}
	return v == 1, nil
}

// Close releases GPIO resources.
// Reconfigures the pin to input with pull-down (matching Pi boot defaults)
// before closing.
func (r *RealMotionReader) Close() error {
	var errs []error

	if r.line != nil {
		if err := r.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure motion pin: %w", err))
		}
		if err := r.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close motion pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
