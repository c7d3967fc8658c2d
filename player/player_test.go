package player

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	a "lautenbacher.net/goornament/animation"
	c "lautenbacher.net/goornament/config"
	"lautenbacher.net/goornament/touch"
)

const (
	ledsTotal = 12
	resting   = 500
	touched   = 750
	pollStep  = 10 * time.Millisecond
)

type levelSensor struct {
	value int
}

func (s *levelSensor) ReadRaw() int {
	return s.value
}

type recordingOutput struct {
	pixels []a.Led
	frames [][]a.Led
	clears int
}

func newRecordingOutput() *recordingOutput {
	return &recordingOutput{pixels: make([]a.Led, ledsTotal)}
}

func (o *recordingOutput) SetPixel(index int, led a.Led) {
	o.pixels[index] = led
}

func (o *recordingOutput) Clear() {
	a.Fill(o.pixels, a.Off)
	o.clears++
}

func (o *recordingOutput) Flush() {
	frame := make([]a.Led, len(o.pixels))
	copy(frame, o.pixels)
	o.frames = append(o.frames, frame)
}

func (o *recordingOutput) lastFrame() []a.Led {
	return o.frames[len(o.frames)-1]
}

func newTestPlayer(t *testing.T) (*Player, *levelSensor, *recordingOutput) {
	t.Helper()
	sensor := &levelSensor{value: resting}
	touchConf := c.TouchConfig{
		Threshold:          200,
		CalibrationSamples: 10,
		SmoothingSamples:   3,
		HistorySize:        10,
	}
	baseline := touch.Calibrate(sensor, touchConf)
	require.Equal(t, resting, baseline)

	detector := touch.NewDetector(sensor, baseline, touchConf, 2*time.Second)
	output := newRecordingOutput()
	p := NewPlayer(detector, output, ledsTotal, a.DefaultSequences())
	p.sleep = func(time.Duration) {}
	return p, sensor, output
}

// pollUntil polls every pollStep from start up to and including end.
func pollUntil(p *Player, start, end time.Time) {
	for now := start; !now.After(end); now = now.Add(pollStep) {
		p.Poll(now)
	}
}

// tap simulates a short touch at start and polls until the debounce
// time has passed. It returns the time of the next poll.
func tap(p *Player, sensor *levelSensor, start time.Time) time.Time {
	sensor.value = touched
	p.Poll(start)
	sensor.value = resting
	end := start.Add(1010 * time.Millisecond)
	pollUntil(p, start.Add(pollStep), end)
	return end.Add(pollStep)
}

func TestPlayer_TouchScenario(t *testing.T) {
	p, sensor, _ := newTestPlayer(t)
	start := time.Unix(1000, 0)

	sensor.value = touched
	p.Poll(start)
	assert.True(t, p.State().Touch.Pending)
	assert.Equal(t, start, p.State().Touch.TriggeredAt)

	// reading stays high until 999ms, still only one pending trigger
	pollUntil(p, start.Add(pollStep), start.Add(990*time.Millisecond))
	p.Poll(start.Add(999 * time.Millisecond))
	assert.Equal(t, a.Idle, p.State().Sequence)
	assert.Equal(t, start, p.State().Touch.TriggeredAt)

	p.Poll(start.Add(1001 * time.Millisecond))
	assert.Equal(t, a.TwinkleRedGreen, p.State().Sequence)
	assert.False(t, p.State().Touch.Pending)
}

func TestPlayer_TouchesWithinDebounceAdvanceOnce(t *testing.T) {
	p, sensor, _ := newTestPlayer(t)
	start := time.Unix(0, 0)

	sensor.value = touched
	pollUntil(p, start, start.Add(200*time.Millisecond))
	sensor.value = resting
	pollUntil(p, start.Add(210*time.Millisecond), start.Add(590*time.Millisecond))
	sensor.value = touched
	pollUntil(p, start.Add(600*time.Millisecond), start.Add(800*time.Millisecond))
	sensor.value = resting
	pollUntil(p, start.Add(810*time.Millisecond), start.Add(3*time.Second))

	assert.Equal(t, a.TwinkleRedGreen, p.State().Sequence)
	assert.False(t, p.State().Touch.Pending)
}

func TestPlayer_CyclesThroughAllSequences(t *testing.T) {
	p, sensor, _ := newTestPlayer(t)
	now := time.Unix(0, 0)

	for n := 1; n <= 13; n++ {
		now = tap(p, sensor, now)
		assert.Equal(t, a.Sequence(n%a.SequencesTotal), p.State().Sequence, "after %d touches", n)
	}
}

func TestPlayer_ClockResetsOnTransition(t *testing.T) {
	p, sensor, _ := newTestPlayer(t)
	now := tap(p, sensor, time.Unix(0, 0))
	require.Equal(t, a.TwinkleRedGreen, p.State().Sequence)

	pollUntil(p, now, now.Add(3*time.Second))
	assert.Greater(t, p.State().Clock.Step, 0)

	sensor.value = touched
	trigger := now.Add(4 * time.Second)
	p.Poll(trigger)
	sensor.value = resting
	transition := trigger.Add(1001 * time.Millisecond)
	p.Poll(transition)

	assert.Equal(t, a.RainbowChase, p.State().Sequence)
	assert.Equal(t, Clock{Start: transition}, p.State().Clock)
}

func TestPlayer_RenderIsGatedByPeriod(t *testing.T) {
	p, sensor, output := newTestPlayer(t)
	now := tap(p, sensor, time.Unix(0, 0))
	require.Equal(t, a.TwinkleRedGreen, p.State().Sequence)
	flushes := len(output.frames)

	// the first poll after a transition renders straight away
	p.Poll(now)
	assert.Equal(t, 1, p.State().Clock.Step)
	assert.Len(t, output.frames, flushes+1)
	for i, led := range output.lastFrame() {
		if i%2 == 0 {
			assert.Equal(t, a.Red, led, "pixel %d", i)
		} else {
			assert.Equal(t, a.Green, led, "pixel %d", i)
		}
	}

	// nothing happens until more than 500ms have passed
	pollUntil(p, now.Add(pollStep), now.Add(500*time.Millisecond))
	assert.Equal(t, 1, p.State().Clock.Step)
	assert.Len(t, output.frames, flushes+1)

	p.Poll(now.Add(510 * time.Millisecond))
	assert.Equal(t, 2, p.State().Clock.Step)
	assert.Equal(t, now.Add(510*time.Millisecond), p.State().Clock.LastUpdate)
	assert.Equal(t, a.Green, output.lastFrame()[0], "step 1 shifts the pattern")
}

func TestPlayer_NoRenderOnTransitionPoll(t *testing.T) {
	p, sensor, output := newTestPlayer(t)
	start := time.Unix(0, 0)

	sensor.value = touched
	p.Poll(start)
	sensor.value = resting
	flushes := len(output.frames)

	p.Poll(start.Add(1001 * time.Millisecond))
	assert.Equal(t, a.TwinkleRedGreen, p.State().Sequence)
	assert.Len(t, output.frames, flushes, "the transition poll does not render")
}

func TestPlayer_IdleClearsEveryPoll(t *testing.T) {
	p, _, output := newTestPlayer(t)
	start := time.Unix(0, 0)

	pollUntil(p, start, start.Add(90*time.Millisecond))
	assert.Len(t, output.frames, 10)
	assert.Equal(t, 10, output.clears)
	for _, led := range output.lastFrame() {
		assert.True(t, led.IsEmpty())
	}
	assert.Equal(t, 0, p.State().Clock.Step)
}

func TestPlayer_Intro(t *testing.T) {
	p, _, output := newTestPlayer(t)
	var slept time.Duration
	p.sleep = func(d time.Duration) { slept = d }

	p.Intro()

	require.Len(t, output.frames, 2)
	for _, led := range output.frames[0] {
		assert.Equal(t, a.White, led)
	}
	for _, led := range output.frames[1] {
		assert.True(t, led.IsEmpty())
	}
	assert.Equal(t, 500*time.Millisecond, slept)
}

func TestPlayer_RunStopsOnCancel(t *testing.T) {
	p, _, output := newTestPlayer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- p.Run(ctx, time.Millisecond)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	for _, led := range output.lastFrame() {
		assert.True(t, led.IsEmpty(), "the ring is switched off on exit")
	}
}
