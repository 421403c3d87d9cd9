// Package adc reads analog inputs through an MCP3008 on the SPI bus.
// Readings are normalised to [0,1]. The fake implementation allows testing
// without hardware.
package adc

import "fmt"

// Reader returns normalised analog readings.
type Reader interface {
	// Read samples one converter channel and returns a value in [0,1].
	Read(channel uint8) (float64, error)

	// Close releases SPI resources.
	Close() error
}

// Converter constants for the MCP3008.
const (
	Channels  = 8
	MaxRaw    = 1023
	DefaultHz = 1000000
)

// Default channel assignment.
const (
	DefaultPotChannel   uint8 = 0
	DefaultLightChannel uint8 = 1
)

// request builds the three-byte single-ended conversion request.
func request(channel uint8) ([]byte, error) {
	if channel >= Channels {
		return nil, fmt.Errorf("adc channel %d out of range", channel)
	}
	return []byte{1, (8 + channel) << 4, 0}, nil
}

// decode extracts the 10-bit result from a conversion response.
func decode(resp []byte) int {
	return ((int(resp[1]) & 3) << 8) + int(resp[2])
}

// Normalize converts a raw 10-bit value to [0,1].
func Normalize(raw int) float64 {
	switch {
	case raw <= 0:
		return 0
	case raw >= MaxRaw:
		return 1
	}
	return float64(raw) / MaxRaw
}

// Smoother averages the last few readings of one channel.
// A window of 1 or less passes readings through.
type Smoother struct {
	values []float64
	next   int
	filled int
}

// NewSmoother creates a moving average over window readings.
func NewSmoother(window int) *Smoother {
	if window < 1 {
		window = 1
	}
	return &Smoother{values: make([]float64, window)}
}

// Add records a reading and returns the current average.
func (s *Smoother) Add(v float64) float64 {
	s.values[s.next] = v
	s.next = (s.next + 1) % len(s.values)
	if s.filled < len(s.values) {
		s.filled++
	}

	var sum float64
	for i := 0; i < s.filled; i++ {
		sum += s.values[i]
	}
	return sum / float64(s.filled)
}
