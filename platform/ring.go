package platform

import (
	a "lautenbacher.net/goornament/animation"
	c "lautenbacher.net/goornament/config"
)

// ring maps the logical LED index used by the animations to the
// physical position on the strip. Offset rotates the ring so that
// logical LED 0 can sit anywhere, reverse flips the running direction.
type ring struct {
	size    int
	offset  int
	reverse bool
}

func newRing(displayConfig c.DisplayConfig) *ring {
	return &ring{
		size:    displayConfig.LedsTotal,
		offset:  displayConfig.Offset,
		reverse: displayConfig.Reverse,
	}
}

func (r *ring) physical(index int) int {
	if r.reverse {
		index = (r.size - index) % r.size
	}
	return (index + r.offset) % r.size
}

// setLeds copies logical into physical, applying the mapping.
func (r *ring) setLeds(logical, physical []a.Led) {
	for i, led := range logical {
		physical[r.physical(i)] = led
	}
}
