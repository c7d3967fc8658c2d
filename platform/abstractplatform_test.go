package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	a "lautenbacher.net/goornament/animation"
	c "lautenbacher.net/goornament/config"
)

func newTestAbstractPlatform(brightness int) (*AbstractPlatform, *[][]a.Led) {
	conf := &c.Config{}
	conf.Hardware.Display = c.DisplayConfig{LedsTotal: 4, Offset: 1, Brightness: brightness}
	var frames [][]a.Led
	p := newAbstractPlatform(conf, func(leds []a.Led) {
		frame := make([]a.Led, len(leds))
		copy(frame, leds)
		frames = append(frames, frame)
	})
	p.now = func() time.Time { return time.Date(2024, 12, 24, 12, 0, 0, 0, time.UTC) }
	return p, &frames
}

func TestAbstractPlatform_FlushAppliesRingAndBrightness(t *testing.T) {
	p, frames := newTestAbstractPlatform(255)
	p.SetPixel(0, a.Red)
	p.SetPixel(3, a.Green)
	p.Flush()

	assert.Len(t, *frames, 1)
	assert.Equal(t, []a.Led{a.Green, a.Red, a.Off, a.Off}, (*frames)[0])

	p, frames = newTestAbstractPlatform(20)
	p.SetPixel(0, a.White)
	p.Flush()
	assert.Equal(t, a.Led{Red: 20, Green: 20, Blue: 20}, (*frames)[0][1])
}

func TestAbstractPlatform_NothingVisibleBeforeFlush(t *testing.T) {
	p, frames := newTestAbstractPlatform(255)
	p.SetPixel(1, a.White)
	p.Clear()
	assert.Empty(t, *frames)

	p.Flush()
	for _, led := range (*frames)[0] {
		assert.True(t, led.IsEmpty())
	}
}

func TestAbstractPlatform_SetPixelOutOfRange(t *testing.T) {
	p, frames := newTestAbstractPlatform(255)
	p.SetPixel(-1, a.White)
	p.SetPixel(4, a.White)
	p.Flush()
	for _, led := range (*frames)[0] {
		assert.True(t, led.IsEmpty())
	}
}

func TestAbstractPlatform_NoDisplayDuringShutdown(t *testing.T) {
	p, frames := newTestAbstractPlatform(255)
	p.setInShutdown()
	p.Flush()
	assert.Empty(t, *frames)
	assert.Equal(t, 4, p.LedsTotal())
}
