package animation

// Rainbow spreads the full colour wheel once around the ring and
// rotates it by 5 wheel positions per step.
func Rainbow(step int, leds []Led) {
	n := len(leds)
	for i := range leds {
		leds[i] = Wheel(byte(((i * 256 / n) + step*5) & 255))
	}
}

// Wheel maps a position 0..255 to a colour on a three segment hue
// wheel. The position is inverted first; 0..84 then ramps red to
// blue, 85..169 blue to green and 170..255 green to red, each segment
// in steps of 3.
func Wheel(pos byte) Led {
	pos = 255 - pos
	if pos < 85 {
		return Led{Red: 255 - pos*3, Green: 0, Blue: pos * 3}
	}
	if pos < 170 {
		pos -= 85
		return Led{Red: 0, Green: pos * 3, Blue: 255 - pos*3}
	}
	pos -= 170
	return Led{Red: pos * 3, Green: 255 - pos*3, Blue: 0}
}
