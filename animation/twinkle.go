package animation

// Twinkle alternates red and green around the ring. The pattern shifts
// by one LED per step, so every LED flips colour on each frame.
func Twinkle(step int, leds []Led) {
	for i := range leds {
		if (step+i)%2 == 0 {
			leds[i] = Red
		} else {
			leds[i] = Green
		}
	}
}
