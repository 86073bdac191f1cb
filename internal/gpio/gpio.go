// Package gpio provides motion input and PWM LED output with hardware abstraction.
// The real implementations use the Linux GPIO character device (input) and
// the BCM2835 PWM peripheral (output).
// The fake implementations allow testing without hardware.
package gpio

// MotionReader reads the PIR sensor output.
type MotionReader interface {
	// Read returns the raw level of the motion pin: true = motion.
	// No debouncing is performed; the PIR module stabilises its own output.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Output drives a dimmable LED.
type Output interface {
	// SetLevel sets the duty cycle to level/255. Fire-and-forget.
	SetLevel(level uint8)

	// Close turns the LED off and releases resources.
	Close() error
}

// Pin defaults (BCM numbering). BCM 18 is hardware PWM0.
const (
	DefaultPinMotion = 17
	DefaultPinLED    = 18
)

// DefaultPWMFreq is the PWM carrier frequency in Hz.
const DefaultPWMFreq = 1000

// pwmRange is the PWM cycle length; duty is level out of pwmRange.
const pwmRange = 255
