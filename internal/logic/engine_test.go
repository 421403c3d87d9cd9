package logic

import "testing"

func TestUpdateEngine(t *testing.T) {
	tests := []struct {
		name                      string
		ignition, driver, running bool
		want                      bool
	}{
		{"ignition with driver starts", true, true, false, true},
		{"ignition with driver stays running", true, true, true, true},
		{"ignition without driver does not start", true, false, false, false},
		{"ignition without driver stops", true, false, true, false},
		{"released keeps running", false, true, true, true},
		{"released keeps running without driver", false, false, true, true},
		{"released stays stopped", false, true, false, false},
		{"released stays stopped without driver", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UpdateEngine(tt.ignition, tt.driver, tt.running)
			if got != tt.want {
				t.Errorf("UpdateEngine(%v, %v, %v): got %v, want %v",
					tt.ignition, tt.driver, tt.running, got, tt.want)
			}
		})
	}
}

func TestUpdateEngineLatch(t *testing.T) {
	running := UpdateEngine(true, true, false)
	if !running {
		t.Fatal("expected engine to start")
	}

	// Button released, driver may or may not still be seated.
	for _, driver := range []bool{true, false} {
		if !UpdateEngine(false, driver, running) {
			t.Errorf("driver=%v: expected latched engine to keep running", driver)
		}
	}
}
