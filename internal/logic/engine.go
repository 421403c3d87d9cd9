package logic

// UpdateEngine returns whether the engine is running after this tick.
//
// While the ignition button is held the result follows the driver seat.
// When it is released the previous state is kept, so a started engine stays
// running without the button held. There is no other way to stop it: the
// driver leaving the seat with the button released does not clear the latch.
func UpdateEngine(ignition, driver, previouslyRunning bool) bool {
	if ignition {
		return driver
	}
	return previouslyRunning
}
