//go:build linux

package gpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// PWMOutput drives an LED from the hardware PWM peripheral.
// Only BCM pins 12, 13, 18 and 19 can carry PWM.
type PWMOutput struct {
	pin rpio.Pin
}

// NewPWMOutput maps the GPIO registers and configures pin for PWM at freqHz.
// The LED starts off.
func NewPWMOutput(pin, freqHz int) (*PWMOutput, error) {
	switch pin {
	case 12, 13, 18, 19:
	default:
		return nil, fmt.Errorf("pin %d has no hardware PWM", pin)
	}
	if freqHz <= 0 {
		return nil, fmt.Errorf("invalid pwm frequency %d", freqHz)
	}

	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio memory: %w", err)
	}

	p := rpio.Pin(pin)
	p.Mode(rpio.Pwm)
	// Output frequency is the PWM clock divided by the cycle length.
	p.Freq(freqHz * pwmRange)
	p.DutyCycle(0, pwmRange)

	return &PWMOutput{pin: p}, nil
}

// SetLevel sets the duty cycle to level/255.
func (o *PWMOutput) SetLevel(level uint8) {
	o.pin.DutyCycle(uint32(level), pwmRange)
}

// Close turns the LED off, returns the pin to a low output and unmaps
// the GPIO registers.
func (o *PWMOutput) Close() error {
	o.pin.DutyCycle(0, pwmRange)
	o.pin.Output()
	o.pin.Low()
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("close gpio memory: %w", err)
	}
	return nil
}
