package adc

import "errors"

// FakeReader returns scripted readings per channel.
type FakeReader struct {
	// Values holds the scripted readings for each channel. Each Read
	// consumes the next one; the last is repeated once exhausted.
	Values map[uint8][]float64

	index map[uint8]int

	// ReadError, if set, will be returned by Read().
	ReadError error

	Closed bool
}

// NewFakeReader creates a FakeReader with the given per-channel readings.
func NewFakeReader(values map[uint8][]float64) *FakeReader {
	return &FakeReader{Values: values, index: make(map[uint8]int)}
}

// Read returns the next scripted reading for the channel.
func (f *FakeReader) Read(channel uint8) (float64, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}

	vals := f.Values[channel]
	if len(vals) == 0 {
		return 0, errors.New("no readings configured for channel")
	}

	if f.index == nil {
		f.index = make(map[uint8]int)
	}
	i := f.index[channel]
	if i < len(vals)-1 {
		f.index[channel] = i + 1
	}
	return vals[i], nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}
