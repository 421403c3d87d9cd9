// Package sensor combines the digital and analog inputs into one sample per tick.
package sensor

import (
	"fmt"

	"github.com/sweeney/headlight-controller/internal/adc"
	"github.com/sweeney/headlight-controller/internal/gpio"
)

// Sample is one reading of every controller input.
type Sample struct {
	Ignition bool
	Driver   bool
	Pot      float64
	Ambient  float64
}

// Reader reads all controller inputs.
type Reader interface {
	Read() (Sample, error)
	Close() error
}

// Channels assigns converter channels and selector smoothing.
type Channels struct {
	Pot   uint8
	Light uint8
	// Smoothing is the moving average window for the selector, 1 disables.
	// The light sensor is never smoothed: the auto-mode dwell needs every
	// tick's raw level so a single contrary tick restarts the wait.
	Smoothing int
}

// BoardReader reads the digital inputs from GPIO and the analog inputs from
// the converter.
type BoardReader struct {
	digital gpio.Reader
	analog  adc.Reader
	ch      Channels
	pot     *adc.Smoother
}

// NewBoardReader composes a digital and an analog reader.
// Close closes both.
func NewBoardReader(digital gpio.Reader, analog adc.Reader, ch Channels) *BoardReader {
	return &BoardReader{
		digital: digital,
		analog:  analog,
		ch:      ch,
		pot:     adc.NewSmoother(ch.Smoothing),
	}
}

// Read samples all four inputs.
func (r *BoardReader) Read() (Sample, error) {
	ign, drv, err := r.digital.Read()
	if err != nil {
		return Sample{}, fmt.Errorf("read digital inputs: %w", err)
	}

	pot, err := r.analog.Read(r.ch.Pot)
	if err != nil {
		return Sample{}, fmt.Errorf("read pot channel %d: %w", r.ch.Pot, err)
	}

	light, err := r.analog.Read(r.ch.Light)
	if err != nil {
		return Sample{}, fmt.Errorf("read light channel %d: %w", r.ch.Light, err)
	}

	return Sample{
		Ignition: ign,
		Driver:   drv,
		Pot:      r.pot.Add(pot),
		Ambient:  light,
	}, nil
}

// Close releases both underlying readers.
func (r *BoardReader) Close() error {
	var errs []error
	if err := r.digital.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close digital: %w", err))
	}
	if err := r.analog.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close analog: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
