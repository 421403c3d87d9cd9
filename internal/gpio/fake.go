package gpio

import "errors"

// FakeReader is a test double that returns scripted GPIO values.
type FakeReader struct {
	// Samples contains scripted (ignition, driver) values to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// Sample represents a single digital reading (already in logical form).
type Sample struct {
	Ignition bool // true = button held
	Driver   bool // true = seat occupied
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (bool, bool, error) {
	if f.ReadError != nil {
		return false, false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.Ignition, sample.Driver, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// Write is one recorded headlight write, per physical channel.
type Write struct {
	Left  bool
	Right bool
}

// FakeActuator records output writes for test assertions.
type FakeActuator struct {
	Indicator bool
	Left      bool
	Right     bool

	// Writes contains every headlight write in order.
	Writes []Write

	// IndicatorWrites counts SetIgnitionIndicator calls.
	IndicatorWrites int

	// WriteError, if set, will be returned by both setters.
	WriteError error

	Closed bool
}

// NewFakeActuator creates a FakeActuator with all outputs off.
func NewFakeActuator() *FakeActuator {
	return &FakeActuator{}
}

// SetIgnitionIndicator records the indicator state.
func (f *FakeActuator) SetIgnitionIndicator(on bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Indicator = on
	f.IndicatorWrites++
	return nil
}

// SetHeadlights records the value on both channels.
func (f *FakeActuator) SetHeadlights(on bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Left, f.Right = on, on
	f.Writes = append(f.Writes, Write{Left: f.Left, Right: f.Right})
	return nil
}

// Close switches everything off and marks the actuator as closed.
func (f *FakeActuator) Close() error {
	f.Indicator, f.Left, f.Right = false, false, false
	f.Closed = true
	return nil
}
