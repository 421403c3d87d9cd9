package logic

import (
	"testing"
	"time"
)

const (
	bright = 0.9
	dark   = 0.2
)

// onHysteresis returns a timer holding the headlight on with no progress.
func onHysteresis(t *testing.T) *Hysteresis {
	t.Helper()
	h := NewHysteresis(DefaultThresholds())
	h.Sync(true)
	if h.State() != StateIdleOn {
		t.Fatalf("expected IDLE_ON, got %s", h.State())
	}
	return h
}

func TestNewHysteresisIdleOff(t *testing.T) {
	h := NewHysteresis(DefaultThresholds())
	if h.Headlight() {
		t.Error("expected headlight off at power-on")
	}
	if h.Elapsed() != 0 {
		t.Errorf("Elapsed: got %v, want 0", h.Elapsed())
	}
	if h.State() != StateIdleOff {
		t.Errorf("State: got %s, want IDLE_OFF", h.State())
	}
}

func TestHysteresisDayDwell(t *testing.T) {
	h := onHysteresis(t)

	for i := 1; i <= 199; i++ {
		if !h.Tick(bright) {
			t.Fatalf("tick %d: headlight turned off before day dwell", i)
		}
	}
	if h.Elapsed() != 1990*time.Millisecond {
		t.Errorf("Elapsed after 199 ticks: got %v, want 1.99s", h.Elapsed())
	}
	if h.State() != StateAccumulatingOff {
		t.Errorf("State: got %s, want ACCUMULATING_TO_OFF", h.State())
	}

	if h.Tick(bright) {
		t.Error("tick 200: expected headlight off")
	}
	if h.Elapsed() != 0 {
		t.Errorf("Elapsed after transition: got %v, want 0", h.Elapsed())
	}
	if h.State() != StateIdleOff {
		t.Errorf("State: got %s, want IDLE_OFF", h.State())
	}
}

func TestHysteresisDuskDwell(t *testing.T) {
	h := NewHysteresis(DefaultThresholds())

	for i := 1; i <= 99; i++ {
		if h.Tick(dark) {
			t.Fatalf("tick %d: headlight turned on before dusk dwell", i)
		}
	}
	if h.Elapsed() != 990*time.Millisecond {
		t.Errorf("Elapsed after 99 ticks: got %v, want 990ms", h.Elapsed())
	}
	if h.State() != StateAccumulatingOn {
		t.Errorf("State: got %s, want ACCUMULATING_TO_ON", h.State())
	}

	if !h.Tick(dark) {
		t.Error("tick 100: expected headlight on")
	}
	if h.Elapsed() != 0 {
		t.Errorf("Elapsed after transition: got %v, want 0", h.Elapsed())
	}
	if h.State() != StateIdleOn {
		t.Errorf("State: got %s, want IDLE_ON", h.State())
	}
}

func TestHysteresisThresholdIsDusk(t *testing.T) {
	h := NewHysteresis(DefaultThresholds())

	// Exactly at the threshold counts as dusk.
	for i := 0; i < 100; i++ {
		h.Tick(DefaultDayLightMin)
	}
	if !h.Headlight() {
		t.Error("expected headlight on after 100 ticks at the threshold")
	}
}

func TestHysteresisInterruptionResetsDay(t *testing.T) {
	h := onHysteresis(t)

	for i := 0; i < 150; i++ {
		h.Tick(bright)
	}
	if h.Elapsed() != 1500*time.Millisecond {
		t.Fatalf("Elapsed: got %v, want 1.5s", h.Elapsed())
	}

	// One dark tick discards the progress.
	if !h.Tick(dark) {
		t.Fatal("dark tick should not turn headlight off")
	}
	if h.Elapsed() != 0 {
		t.Errorf("Elapsed after interruption: got %v, want 0", h.Elapsed())
	}

	// The full dwell is needed again.
	for i := 1; i <= 199; i++ {
		if !h.Tick(bright) {
			t.Fatalf("tick %d after interruption: headlight turned off early", i)
		}
	}
	if h.Tick(bright) {
		t.Error("expected headlight off after a full uninterrupted dwell")
	}
}

func TestHysteresisInterruptionResetsDusk(t *testing.T) {
	h := NewHysteresis(DefaultThresholds())

	for i := 0; i < 99; i++ {
		h.Tick(dark)
	}
	h.Tick(bright)
	if h.Elapsed() != 0 {
		t.Errorf("Elapsed after interruption: got %v, want 0", h.Elapsed())
	}

	for i := 1; i <= 99; i++ {
		if h.Tick(dark) {
			t.Fatalf("tick %d after interruption: headlight turned on early", i)
		}
	}
	if !h.Tick(dark) {
		t.Error("expected headlight on after a full uninterrupted dwell")
	}
}

func TestHysteresisFlickerNeverFires(t *testing.T) {
	h := NewHysteresis(DefaultThresholds())

	for i := 0; i < 5000; i++ {
		ambient := dark
		if i%50 == 49 {
			ambient = bright
		}
		if h.Tick(ambient) {
			t.Fatalf("tick %d: headlight turned on without a continuous dusk dwell", i)
		}
	}
}

func TestHysteresisSyncClearsProgress(t *testing.T) {
	h := NewHysteresis(DefaultThresholds())
	for i := 0; i < 40; i++ {
		h.Tick(dark)
	}
	h.Sync(false)
	if h.Elapsed() != 0 {
		t.Errorf("Elapsed after Sync: got %v, want 0", h.Elapsed())
	}
	if h.Headlight() {
		t.Error("Sync(false) should leave the headlight off")
	}
	if h.State() != StateIdleOff {
		t.Errorf("State: got %s, want IDLE_OFF", h.State())
	}
}

func TestHysteresisCustomTick(t *testing.T) {
	th := DefaultThresholds()
	th.TickPeriod = 100 * time.Millisecond
	h := NewHysteresis(th)

	for i := 1; i <= 9; i++ {
		if h.Tick(dark) {
			t.Fatalf("tick %d: headlight on too early", i)
		}
	}
	if !h.Tick(dark) {
		t.Error("expected headlight on after 10 ticks of 100ms")
	}
}
