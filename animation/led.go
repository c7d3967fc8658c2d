package animation

type Led struct {
	Red   byte
	Green byte
	Blue  byte
}

var (
	Off   = Led{}
	Red   = Led{Red: 255}
	Green = Led{Green: 255}
	White = Led{Red: 255, Green: 255, Blue: 255}
)

// True if all components are zero, false otherwise
func (s Led) IsEmpty() bool {
	return s.Red == 0 && s.Green == 0 && s.Blue == 0
}

// Return the Led dimmed by a global brightness in the range 0..255,
// scaling each component by (brightness+1)/256. A brightness of 255
// leaves the value unchanged.
func (s Led) Scale(brightness int) Led {
	if brightness >= 255 {
		return s
	}
	if brightness <= 0 {
		return Off
	}
	b := uint16(brightness) + 1
	return Led{
		Red:   byte((uint16(s.Red) * b) >> 8),
		Green: byte((uint16(s.Green) * b) >> 8),
		Blue:  byte((uint16(s.Blue) * b) >> 8),
	}
}

// Fill sets every LED of leds to value
func Fill(leds []Led, value Led) {
	for i := range leds {
		leds[i] = value
	}
}
