package platform

import (
	"time"

	"github.com/nathan-osman/go-sunrise"

	c "lautenbacher.net/goornament/config"
)

// nightDimmer picks the global brightness depending on whether the sun
// is up at the configured location. Sunrise and sunset are calculated
// once per day.
type nightDimmer struct {
	enabled   bool
	latitude  float64
	longitude float64
	day       int
	night     int
	date      time.Time
	rise      time.Time
	set       time.Time
}

func newNightDimmer(displayConfig c.DisplayConfig, nightConfig c.NightDimConfig) *nightDimmer {
	return &nightDimmer{
		enabled:   nightConfig.Enabled,
		latitude:  nightConfig.Latitude,
		longitude: nightConfig.Longitude,
		day:       displayConfig.Brightness,
		night:     nightConfig.NightBrightness,
	}
}

func (n *nightDimmer) brightness(now time.Time) int {
	if !n.enabled {
		return n.day
	}
	year, month, day := now.Date()
	if y, m, d := n.date.Date(); y != year || m != month || d != day {
		n.rise, n.set = sunrise.SunriseSunset(n.latitude, n.longitude, year, month, day)
		n.date = now
	}
	if now.After(n.rise) && now.Before(n.set) {
		return n.day
	}
	return n.night
}
