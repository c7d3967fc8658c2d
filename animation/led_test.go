package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLed_IsEmpty(t *testing.T) {
	led := Led{Red: 0, Green: 0, Blue: 0}
	assert.True(t, led.IsEmpty(), "IsEmpty should be true for a zero Led")

	led = Led{Red: 1, Green: 0, Blue: 0}
	assert.False(t, led.IsEmpty(), "IsEmpty should be false for a non-zero Led")
}

func TestLed_Scale(t *testing.T) {
	assert.Equal(t, White, White.Scale(255), "full brightness keeps the value")
	assert.Equal(t, Off, White.Scale(0), "zero brightness switches the LED off")

	// (255 * 21) >> 8 == 20
	assert.Equal(t, Led{Red: 20, Green: 20, Blue: 20}, White.Scale(20))
	assert.Equal(t, Led{Red: 127, Green: 63, Blue: 0}, Led{Red: 255, Green: 127}.Scale(127))
}

func TestFill(t *testing.T) {
	leds := make([]Led, 4)
	Fill(leds, Red)
	for _, led := range leds {
		assert.Equal(t, Red, led)
	}
}
