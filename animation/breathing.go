package animation

import "math"

// sineBrightness maps step onto a sine wave between 0 and 255. rate is
// the phase advance per step.
func sineBrightness(step int, rate float64) int {
	breath := (math.Sin(float64(step)*rate) + 1.0) / 2.0
	return int(breath * 255)
}

// Breathing pulses the whole ring in gold.
func Breathing(step int, leds []Led) {
	b := sineBrightness(step, 0.1)
	Fill(leds, Led{Red: byte(b), Green: byte(b / 2), Blue: 0})
}

// WarmWhite slowly fades the whole ring in and out in a warm white.
func WarmWhite(step int, leds []Led) {
	b := sineBrightness(step, 0.05)
	Fill(leds, Led{
		Red:   byte(b),
		Green: byte(float64(b) * 0.8),
		Blue:  byte(float64(b) * 0.6),
	})
}
