package animation

import (
	"fmt"
	"time"

	c "lautenbacher.net/goornament/config"
)

// Sequence is one of the fixed animation modes of the ornament. The
// order of the constants is the order a touch cycles through them.
type Sequence int

const (
	Idle Sequence = iota
	TwinkleRedGreen
	RainbowChase
	BreathingGold
	CandyCaneFlash
	WarmWhiteFade
)

const SequencesTotal = 6

func (s Sequence) String() string {
	switch s {
	case Idle:
		return "Idle"
	case TwinkleRedGreen:
		return "TwinkleRedGreen"
	case RainbowChase:
		return "RainbowChase"
	case BreathingGold:
		return "BreathingGold"
	case CandyCaneFlash:
		return "CandyCaneFlash"
	case WarmWhiteFade:
		return "WarmWhiteFade"
	default:
		return fmt.Sprintf("Sequence(%d)", int(s))
	}
}

// Next returns the successor of s, wrapping from the last sequence
// back to Idle.
func (s Sequence) Next() Sequence {
	return Sequence((int(s) + 1) % SequencesTotal)
}

// RenderFunc computes one frame into leds for the given step. It must
// only depend on step and len(leds).
type RenderFunc func(step int, leds []Led)

// Animation couples a renderer with the minimum time between two
// frames. Idle has a zero period and renders on every poll.
type Animation struct {
	Sequence Sequence
	Period   time.Duration
	Render   RenderFunc
}

// Table maps each sequence to its animation.
type Table [SequencesTotal]Animation

// NewTable builds the animation table with the periods from the
// sequences section of the configuration.
func NewTable(conf c.SequencesConfig) Table {
	return Table{
		Idle:            {Sequence: Idle, Render: Clear},
		TwinkleRedGreen: {Sequence: TwinkleRedGreen, Period: conf.TwinkleRedGreen, Render: Twinkle},
		RainbowChase:    {Sequence: RainbowChase, Period: conf.RainbowChase, Render: Rainbow},
		BreathingGold:   {Sequence: BreathingGold, Period: conf.BreathingGold, Render: Breathing},
		CandyCaneFlash:  {Sequence: CandyCaneFlash, Period: conf.CandyCaneFlash, Render: CandyCane},
		WarmWhiteFade:   {Sequence: WarmWhiteFade, Period: conf.WarmWhiteFade, Render: WarmWhite},
	}
}

// DefaultSequences returns the timing the ornament was designed with.
func DefaultSequences() c.SequencesConfig {
	return c.SequencesConfig{
		DebounceTime:    time.Second,
		DebugInterval:   2 * time.Second,
		IntroFlash:      500 * time.Millisecond,
		TwinkleRedGreen: 500 * time.Millisecond,
		RainbowChase:    100 * time.Millisecond,
		BreathingGold:   50 * time.Millisecond,
		CandyCaneFlash:  200 * time.Millisecond,
		WarmWhiteFade:   50 * time.Millisecond,
	}
}

// Clear switches all LEDs off.
func Clear(_ int, leds []Led) {
	Fill(leds, Off)
}
