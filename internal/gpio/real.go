//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads GPIO from actual hardware using Linux GPIO character device.
type RealReader struct {
	chip       *gpiocdev.Chip
	ignitionIn *gpiocdev.Line
	driverIn   *gpiocdev.Line
}

// NewRealReader requests the ignition and driver input lines.
func NewRealReader(pins Pins) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(pins.Chip, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Pull-down matches Pi boot defaults; switches pull the line high.
	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithPullDown}
	if pins.ActiveLow {
		opts = []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow}
	}

	ignLine, err := chip.RequestLine(pins.Ignition, opts...)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request ignition pin %d: %w", pins.Ignition, err)
	}

	drvLine, err := chip.RequestLine(pins.Driver, opts...)
	if err != nil {
		ignLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request driver pin %d: %w", pins.Driver, err)
	}

	return &RealReader{
		chip:       chip,
		ignitionIn: ignLine,
		driverIn:   drvLine,
	}, nil
}

// Read returns the logical states of the ignition button and driver seat.
func (r *RealReader) Read() (bool, bool, error) {
	ign, err := r.ignitionIn.Value()
	if err != nil {
		return false, false, fmt.Errorf("read ignition pin: %w", err)
	}

	drv, err := r.driverIn.Value()
	if err != nil {
		return false, false, fmt.Errorf("read driver pin: %w", err)
	}

	return ign == 1, drv == 1, nil
}

// Close releases GPIO resources.
// Reconfigures pins to input with pull-down (matching Pi boot defaults) before
// closing to ensure clean state for system shutdown/reboot.
func (r *RealReader) Close() error {
	var errs []error

	for name, line := range map[string]*gpiocdev.Line{"ignition": r.ignitionIn, "driver": r.driverIn} {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", name, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", name, err))
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

// RealActuator drives the indicator LED and the paired headlight outputs.
type RealActuator struct {
	chip       *gpiocdev.Chip
	indicator  *gpiocdev.Line
	headlights *gpiocdev.Lines
}

// NewRealActuator requests the output lines, all initially low.
func NewRealActuator(pins Pins) (*RealActuator, error) {
	chip, err := gpiocdev.NewChip(pins.Chip, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	ind, err := chip.RequestLine(pins.Indicator, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request indicator pin %d: %w", pins.Indicator, err)
	}

	// One request for both channels: SetValues updates them in a single ioctl.
	hl, err := chip.RequestLines([]int{pins.HeadlightL, pins.HeadlightR}, gpiocdev.AsOutput(0, 0))
	if err != nil {
		ind.Close()
		chip.Close()
		return nil, fmt.Errorf("request headlight pins %d,%d: %w", pins.HeadlightL, pins.HeadlightR, err)
	}

	return &RealActuator{
		chip:       chip,
		indicator:  ind,
		headlights: hl,
	}, nil
}

// SetIgnitionIndicator switches the engine-running LED.
func (a *RealActuator) SetIgnitionIndicator(on bool) error {
	if err := a.indicator.SetValue(boolToValue(on)); err != nil {
		return fmt.Errorf("set indicator: %w", err)
	}
	return nil
}

// SetHeadlights switches both headlight channels together.
func (a *RealActuator) SetHeadlights(on bool) error {
	v := boolToValue(on)
	if err := a.headlights.SetValues([]int{v, v}); err != nil {
		return fmt.Errorf("set headlights: %w", err)
	}
	return nil
}

// Close drives all outputs low and releases GPIO resources.
func (a *RealActuator) Close() error {
	var errs []error

	if a.headlights != nil {
		if err := a.headlights.SetValues([]int{0, 0}); err != nil {
			errs = append(errs, fmt.Errorf("clear headlights: %w", err))
		}
		if err := a.headlights.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close headlight pins: %w", err))
		}
	}
	if a.indicator != nil {
		if err := a.indicator.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear indicator: %w", err))
		}
		if err := a.indicator.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close indicator pin: %w", err))
		}
	}
	if a.chip != nil {
		if err := a.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
