// Package gpio provides digital GPIO inputs and outputs with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the digital controller inputs.
type Reader interface {
	// Read returns the logical states of the ignition button and the
	// driver seat sensor. Returns (ignition, driver, error).
	Read() (bool, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Actuator drives the controller outputs.
type Actuator interface {
	// SetIgnitionIndicator switches the engine-running indicator LED.
	SetIgnitionIndicator(on bool) error

	// SetHeadlights switches both headlight channels to the same value
	// in a single request, so they are never observed in different states.
	SetHeadlights(on bool) error

	// Close switches all outputs off and releases GPIO resources.
	Close() error
}

// Default pin definitions (BCM numbering)
const (
	DefaultChip          = "gpiochip0"
	DefaultPinIgnition   = 17 // ignition push button
	DefaultPinDriver     = 27 // driver seat switch
	DefaultPinIndicator  = 22 // engine running LED
	DefaultPinHeadlightL = 23
	DefaultPinHeadlightR = 24
	consumer             = "headlight-controller"
)

// Pins selects the lines used by the real reader and actuator.
type Pins struct {
	Chip       string
	Ignition   int
	Driver     int
	Indicator  int
	HeadlightL int
	HeadlightR int
	ActiveLow  bool // inputs read 0 when asserted
}

// DefaultPins returns the stock wiring.
func DefaultPins() Pins {
	return Pins{
		Chip:       DefaultChip,
		Ignition:   DefaultPinIgnition,
		Driver:     DefaultPinDriver,
		Indicator:  DefaultPinIndicator,
		HeadlightL: DefaultPinHeadlightL,
		HeadlightR: DefaultPinHeadlightR,
	}
}

func boolToValue(on bool) int {
	if on {
		return 1
	}
	return 0
}
