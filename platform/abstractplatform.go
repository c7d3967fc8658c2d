package platform

import (
	"sync"
	"time"

	a "lautenbacher.net/goornament/animation"
	c "lautenbacher.net/goornament/config"
)

// AbstractPlatform implements the frame buffer shared by all platforms.
// The concrete platform supplies displayFunc, which receives the frame
// in physical strip order with the global brightness already applied.
type AbstractPlatform struct {
	config         *c.Config
	ring           *ring
	dimmer         *nightDimmer
	pixels         []a.Led
	frame          []a.Led
	displayFunc    func([]a.Led)
	shutdownMutex  sync.RWMutex
	isShuttingDown bool
	now            func() time.Time
}

func newAbstractPlatform(conf *c.Config, displayFunc func([]a.Led)) *AbstractPlatform {
	ledsTotal := conf.Hardware.Display.LedsTotal
	return &AbstractPlatform{
		config:      conf,
		ring:        newRing(conf.Hardware.Display),
		dimmer:      newNightDimmer(conf.Hardware.Display, conf.NightDim),
		pixels:      make([]a.Led, ledsTotal),
		frame:       make([]a.Led, ledsTotal),
		displayFunc: displayFunc,
		now:         time.Now,
	}
}

func (s *AbstractPlatform) LedsTotal() int {
	return s.config.Hardware.Display.LedsTotal
}

// SetPixel ignores indices outside the ring.
func (s *AbstractPlatform) SetPixel(index int, led a.Led) {
	if index < 0 || index >= len(s.pixels) {
		return
	}
	s.pixels[index] = led
}

func (s *AbstractPlatform) Clear() {
	a.Fill(s.pixels, a.Off)
}

// Flush hands the current pixels to the display, unless the platform
// is shutting down.
func (s *AbstractPlatform) Flush() {
	brightness := s.dimmer.brightness(s.now())
	s.ring.setLeds(s.pixels, s.frame)
	for i := range s.frame {
		s.frame[i] = s.frame[i].Scale(brightness)
	}

	s.shutdownMutex.RLock()
	defer s.shutdownMutex.RUnlock()
	if !s.isShuttingDown {
		s.displayFunc(s.frame)
	}
}

func (s *AbstractPlatform) setInShutdown() {
	s.shutdownMutex.Lock()
	s.isShuttingDown = true
	s.shutdownMutex.Unlock()
}
