package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderRead(t *testing.T) {
	samples := []Sample{
		{Ignition: true, Driver: false},
		{Ignition: false, Driver: true},
		{Ignition: true, Driver: true},
	}

	f := NewFakeReader(samples)

	for i, want := range samples {
		ign, drv, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if ign != want.Ignition || drv != want.Driver {
			t.Errorf("sample %d: expected (%v, %v), got (%v, %v)", i, want.Ignition, want.Driver, ign, drv)
		}
	}

	// Fourth read should repeat last sample
	ign, drv, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ign != true || drv != true {
		t.Errorf("sample 3 (repeat): expected (true, true), got (%v, %v)", ign, drv)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	_, _, err := f.Read()
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]Sample{{Ignition: true, Driver: true}})
	f.ReadError = errors.New("simulated error")

	_, _, err := f.Read()
	if err == nil {
		t.Error("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderCloseAndReset(t *testing.T) {
	f := NewFakeReader([]Sample{{Ignition: true}, {Driver: true}})

	f.Read()
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed {
		t.Error("Reset should clear Closed")
	}
	ign, drv, _ := f.Read()
	if ign != true || drv != false {
		t.Errorf("after reset: expected (true, false), got (%v, %v)", ign, drv)
	}
}

func TestFakeActuatorChannelParity(t *testing.T) {
	a := NewFakeActuator()

	for i, on := range []bool{true, false, false, true, true} {
		if err := a.SetHeadlights(on); err != nil {
			t.Fatalf("write %d: unexpected error: %v", i, err)
		}
		if a.Left != on || a.Right != on {
			t.Errorf("write %d: expected both channels %v, got (%v, %v)", i, on, a.Left, a.Right)
		}
	}

	if len(a.Writes) != 5 {
		t.Fatalf("expected 5 recorded writes, got %d", len(a.Writes))
	}
	for i, w := range a.Writes {
		if w.Left != w.Right {
			t.Errorf("write %d: channels differ (%v, %v)", i, w.Left, w.Right)
		}
	}
}

func TestFakeActuatorIndicator(t *testing.T) {
	a := NewFakeActuator()

	a.SetIgnitionIndicator(true)
	if !a.Indicator {
		t.Error("expected indicator on")
	}
	a.SetIgnitionIndicator(false)
	if a.Indicator {
		t.Error("expected indicator off")
	}
	if a.IndicatorWrites != 2 {
		t.Errorf("IndicatorWrites: got %d, want 2", a.IndicatorWrites)
	}
}

func TestFakeActuatorError(t *testing.T) {
	a := NewFakeActuator()
	a.WriteError = errors.New("bus fault")

	if err := a.SetHeadlights(true); err == nil {
		t.Error("expected error from SetHeadlights")
	}
	if err := a.SetIgnitionIndicator(true); err == nil {
		t.Error("expected error from SetIgnitionIndicator")
	}
	if a.Left || a.Right || a.Indicator {
		t.Error("failed writes should not change outputs")
	}
}

func TestFakeActuatorClose(t *testing.T) {
	a := NewFakeActuator()
	a.SetIgnitionIndicator(true)
	a.SetHeadlights(true)

	if err := a.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Closed {
		t.Error("should be closed after Close()")
	}
	if a.Indicator || a.Left || a.Right {
		t.Error("Close should switch all outputs off")
	}
}

func TestDefaultPins(t *testing.T) {
	p := DefaultPins()
	if p.Chip != "gpiochip0" {
		t.Errorf("Chip: got %q, want gpiochip0", p.Chip)
	}
	seen := map[int]string{}
	for name, pin := range map[string]int{
		"ignition":    p.Ignition,
		"driver":      p.Driver,
		"indicator":   p.Indicator,
		"headlight_l": p.HeadlightL,
		"headlight_r": p.HeadlightR,
	} {
		if other, ok := seen[pin]; ok {
			t.Errorf("pin %d used for both %s and %s", pin, name, other)
		}
		seen[pin] = name
	}
}

func TestBoolToValue(t *testing.T) {
	if boolToValue(true) != 1 || boolToValue(false) != 0 {
		t.Error("boolToValue mapping wrong")
	}
}
