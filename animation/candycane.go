package animation

// CandyCane draws stripes of two white and two red LEDs that walk
// around the ring one LED per step.
func CandyCane(step int, leds []Led) {
	for i := range leds {
		if (step+i)%4 < 2 {
			leds[i] = White
		} else {
			leds[i] = Red
		}
	}
}
