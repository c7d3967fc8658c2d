package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func render(f RenderFunc, step, n int) []Led {
	leds := make([]Led, n)
	f(step, leds)
	return leds
}

func TestTwinkle_StepZero(t *testing.T) {
	leds := render(Twinkle, 0, 12)
	for i, led := range leds {
		if i%2 == 0 {
			assert.Equal(t, Led{Red: 255}, led, "pixel %d should be red", i)
		} else {
			assert.Equal(t, Led{Green: 255}, led, "pixel %d should be green", i)
		}
	}
}

func TestTwinkle_AlternatesEachStep(t *testing.T) {
	first := render(Twinkle, 0, 12)
	second := render(Twinkle, 1, 12)
	for i := range first {
		assert.NotEqual(t, first[i], second[i], "pixel %d should flip", i)
	}
	assert.Equal(t, first, render(Twinkle, 2, 12))
}

func TestCandyCane(t *testing.T) {
	leds := render(CandyCane, 0, 8)
	assert.Equal(t, []Led{White, White, Red, Red, White, White, Red, Red}, leds)

	leds = render(CandyCane, 1, 8)
	assert.Equal(t, []Led{White, Red, Red, White, White, Red, Red, White}, leds)
}

func TestWheel_Endpoints(t *testing.T) {
	assert.Equal(t, Led{Red: 255}, Wheel(0))
	assert.Equal(t, Led{Red: 255}, Wheel(255))
	// inverted position 85 is pure blue, 170 pure green
	assert.Equal(t, Led{Blue: 255}, Wheel(255-85))
	assert.Equal(t, Led{Green: 255}, Wheel(255-170))
}

func TestWheel_Continuous(t *testing.T) {
	absDiff := func(a, b byte) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	for pos := 0; pos < 255; pos++ {
		a := Wheel(byte(pos))
		b := Wheel(byte(pos + 1))
		assert.LessOrEqual(t, absDiff(a.Red, b.Red), 3, "red jump between %d and %d", pos, pos+1)
		assert.LessOrEqual(t, absDiff(a.Green, b.Green), 3, "green jump between %d and %d", pos, pos+1)
		assert.LessOrEqual(t, absDiff(a.Blue, b.Blue), 3, "blue jump between %d and %d", pos, pos+1)
	}
}

func TestWheel_ComponentsSumTo255(t *testing.T) {
	for pos := 0; pos < 256; pos++ {
		c := Wheel(byte(pos))
		assert.Equal(t, 255, int(c.Red)+int(c.Green)+int(c.Blue), "position %d", pos)
	}
}

func TestRainbow(t *testing.T) {
	leds := render(Rainbow, 0, 12)
	for i, led := range leds {
		assert.Equal(t, Wheel(byte(i*256/12)), led, "pixel %d", i)
	}

	// every step rotates the wheel by 5 positions
	leds = render(Rainbow, 3, 12)
	assert.Equal(t, Wheel(15), leds[0])
	assert.Equal(t, Wheel(byte((11*256/12+15)&255)), leds[11])
}

func TestBreathing(t *testing.T) {
	// sin(0) == 0 -> half brightness
	leds := render(Breathing, 0, 3)
	for _, led := range leds {
		assert.Equal(t, Led{Red: 127, Green: 63, Blue: 0}, led)
	}

	// sin(1.6) is close to the maximum
	leds = render(Breathing, 16, 3)
	assert.Equal(t, Led{Red: 254, Green: 127, Blue: 0}, leds[0])
}

func TestWarmWhite(t *testing.T) {
	leds := render(WarmWhite, 0, 3)
	for _, led := range leds {
		assert.Equal(t, Led{Red: 127, Green: 101, Blue: 76}, led)
	}
}

func TestRenderersArePure(t *testing.T) {
	for _, anim := range NewTable(DefaultSequences()) {
		for _, step := range []int{0, 1, 7, 123, 10000} {
			assert.Equal(t, render(anim.Render, step, 12), render(anim.Render, step, 12),
				"%s is not deterministic at step %d", anim.Sequence, step)
		}
	}
}
