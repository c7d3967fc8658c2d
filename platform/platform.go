package platform

import (
	a "lautenbacher.net/goornament/animation"
)

// Platform defines the interface for abstracting away the real hardware
// from the TUI simulation. It provides the analog touch input and the
// LED ring as a write-only frame buffer.
type Platform interface {
	// Start initializes the platform (e.g., opens GPIO/SPI, or starts the TUI).
	Start() error

	// Stop cleans up all platform resources.
	Stop()

	// Ready is closed once the platform can be used.
	Ready() <-chan bool

	LedsTotal() int

	// ReadRaw returns one raw sample of the touch sensor (0..1023).
	ReadRaw() int

	// SetPixel, Clear and Flush make up the LED output. Changes only
	// become visible with Flush.
	SetPixel(index int, led a.Led)
	Clear()
	Flush()
}
