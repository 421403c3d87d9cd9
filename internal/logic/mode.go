package logic

import "math"

// Clamp limits an analog reading to [0,1]. NaN reads as 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Classify maps a selector reading to a mode.
// [0, PotOnMax] is forced on, (PotOnMax, PotOffMin) forced off and
// [PotOffMin, 1] auto.
func Classify(pot float64, th Thresholds) Mode {
	pot = Clamp(pot)
	switch {
	case pot <= th.PotOnMax:
		return ModeForcedOn
	case pot < th.PotOffMin:
		return ModeForcedOff
	default:
		return ModeAuto
	}
}
