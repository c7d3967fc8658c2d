package player

import (
	"context"
	"log/slog"
	"time"

	a "lautenbacher.net/goornament/animation"
	c "lautenbacher.net/goornament/config"
	"lautenbacher.net/goornament/touch"
)

// Output is the write-only frame buffer of the LED ring. Nothing is
// visible before Flush latches the whole frame.
type Output interface {
	SetPixel(index int, led a.Led)
	Clear()
	Flush()
}

// Clock is the time base of the active sequence. It is reset on every
// transition.
type Clock struct {
	Start      time.Time
	LastUpdate time.Time
	Step       int
}

// State is everything the poll loop mutates.
type State struct {
	Sequence a.Sequence
	Clock    Clock
	Touch    touch.State
}

// Player advances through the sequences on debounced touches and
// renders the active one into the output.
type Player struct {
	state      State
	detector   *touch.Detector
	output     Output
	animations a.Table
	frame      []a.Led
	debounce   time.Duration
	introFlash time.Duration
	sleep      func(time.Duration)
}

func NewPlayer(detector *touch.Detector, output Output, ledsTotal int, conf c.SequencesConfig) *Player {
	return &Player{
		detector:   detector,
		output:     output,
		animations: a.NewTable(conf),
		frame:      make([]a.Led, ledsTotal),
		debounce:   conf.DebounceTime,
		introFlash: conf.IntroFlash,
		sleep:      time.Sleep,
	}
}

// State returns a copy of the current state.
func (p *Player) State() State {
	return p.state
}

// Intro flashes the whole ring white to show the ornament is ready and
// leaves it switched off.
func (p *Player) Intro() {
	for i := range p.frame {
		p.output.SetPixel(i, a.White)
	}
	p.output.Flush()
	p.sleep(p.introFlash)
	p.output.Clear()
	p.output.Flush()
}

// Poll runs one iteration of the control loop: read the touch sensor,
// advance the sequence if a touch is due, otherwise render a frame if
// the active sequence's period has elapsed.
func (p *Player) Poll(now time.Time) {
	p.detector.Poll(now, &p.state.Touch, p.state.Sequence == a.Idle)

	if p.state.Touch.Debounced(now, p.debounce) {
		p.advance(now)
		p.state.Touch.Clear()
		return
	}
	p.render(now)
}

func (p *Player) advance(now time.Time) {
	p.state.Sequence = p.state.Sequence.Next()
	p.state.Clock = Clock{Start: now}
	slog.Info("Starting sequence", "sequence", p.state.Sequence.String())
}

func (p *Player) render(now time.Time) {
	anim := p.animations[p.state.Sequence]
	if p.state.Sequence == a.Idle {
		p.output.Clear()
		p.output.Flush()
		return
	}
	if now.Sub(p.state.Clock.LastUpdate) <= anim.Period {
		return
	}
	anim.Render(p.state.Clock.Step, p.frame)
	for i, led := range p.frame {
		p.output.SetPixel(i, led)
	}
	p.output.Flush()
	p.state.Clock.Step++
	p.state.Clock.LastUpdate = now
}

// Run polls every loopDelay until ctx is cancelled.
func (p *Player) Run(ctx context.Context, loopDelay time.Duration) error {
	slog.Info("Ornament ready, touch to start sequences", "baseline", p.detector.Baseline())
	p.Intro()

	ticker := time.NewTicker(loopDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Ending poll loop")
			p.output.Clear()
			p.output.Flush()
			return ctx.Err()
		case now := <-ticker.C:
			p.Poll(now)
		}
	}
}
