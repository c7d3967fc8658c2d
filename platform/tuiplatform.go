package platform

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	a "lautenbacher.net/goornament/animation"
	"lautenbacher.net/goornament/config"
	"lautenbacher.net/goornament/logging"
	"lautenbacher.net/goornament/util"
)

// TUIPlatform simulates the ornament in the terminal. The ring is drawn
// as a row of coloured dots and the space bar plays the finger on the
// touch electrode.
type TUIPlatform struct {
	*AbstractPlatform
	tviewapp     *tview.Application
	intro        *tview.TextView
	ledDisplay   *tview.TextView
	logView      *tview.TextView
	ossignalChan chan os.Signal
	frames       *util.AtomicEvent[[]a.Led]
	displayWg    sync.WaitGroup
	stopChan     chan struct{}
	logFlushOnce sync.Once
	readyChan    chan bool

	// guarded by sensorMutex
	sensorMutex  sync.Mutex
	touchedUntil time.Time
	touchDelta   int
	lastReading  int
	random       *rand.Rand
}

func NewTUIPlatform(conf *config.Config, ossignalchan chan os.Signal) *TUIPlatform {
	inst := &TUIPlatform{
		ossignalChan: ossignalchan,
		frames:       util.NewAtomicEvent[[]a.Led](),
		stopChan:     make(chan struct{}),
		readyChan:    make(chan bool),
		touchDelta:   conf.Simulation.TouchDelta,
		random:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	inst.AbstractPlatform = newAbstractPlatform(conf, inst.tuiDisplayFunc)
	return inst
}

func (s *TUIPlatform) Ready() <-chan bool {
	return s.readyChan
}

// Start brings up the simulation TUI. In sensor show mode the sensor
// viewer owns the terminal, so only the simulated sensor is provided.
func (s *TUIPlatform) Start() error {
	if s.config.SensorShow {
		close(s.readyChan)
		return nil
	}
	s.initSimulationTUI()

	s.displayWg.Add(1)
	go s.displayDriver()

	return nil
}

func (s *TUIPlatform) Stop() {
	s.setInShutdown()

	close(s.stopChan)
	s.displayWg.Wait()

	if s.tviewapp != nil {
		s.tviewapp.Stop()
	}
	logging.BufferOutput()
}

// ReadRaw simulates the analog touch input: the resting value with some
// noise, raised by the touch delta while the simulated finger is down.
func (s *TUIPlatform) ReadRaw() int {
	s.sensorMutex.Lock()
	defer s.sensorMutex.Unlock()

	sim := s.config.Simulation
	value := sim.RestingValue
	if sim.Noise > 0 {
		value += s.random.Intn(2*sim.Noise+1) - sim.Noise
	}
	if s.now().Before(s.touchedUntil) {
		value += s.touchDelta
	}
	value = min(max(value, 0), 1023)
	s.lastReading = value
	return value
}

// Touch puts the simulated finger on the electrode for the configured
// hold time.
func (s *TUIPlatform) Touch() {
	s.sensorMutex.Lock()
	defer s.sensorMutex.Unlock()
	s.touchedUntil = s.now().Add(s.config.Simulation.TouchHold)
	slog.Debug("Simulated touch", "delta", s.touchDelta, "hold", s.config.Simulation.TouchHold)
}

func (s *TUIPlatform) changeTouchDelta(diff int) int {
	s.sensorMutex.Lock()
	defer s.sensorMutex.Unlock()
	s.touchDelta = min(max(s.touchDelta+diff, -1023), 1023)
	return s.touchDelta
}

func (s *TUIPlatform) sensorState() (reading int, delta int) {
	s.sensorMutex.Lock()
	defer s.sensorMutex.Unlock()
	return s.lastReading, s.touchDelta
}

// tuiDisplayFunc is called from the poll loop. It only stores a copy of
// the frame; drawing happens in displayDriver.
func (s *TUIPlatform) tuiDisplayFunc(leds []a.Led) {
	frame := make([]a.Led, len(leds))
	copy(frame, leds)
	s.frames.Send(frame)
}

func (s *TUIPlatform) displayDriver() {
	defer s.displayWg.Done()
	for {
		leds, ok := s.frames.Wait(s.stopChan)
		if !ok {
			slog.Info("Ending DisplayDriver go-routine (TUI)")
			return
		}
		text := renderRing(leds)
		reading, delta := s.sensorState()
		status := fmt.Sprintf(" [blue]sensor:[-] %4d   [blue]touch delta:[-] %+d", reading, delta)
		s.tviewapp.QueueUpdateDraw(func() {
			s.ledDisplay.SetText(text + "\n\n" + status)
		})
	}
}

func (s *TUIPlatform) getIntroText() string {
	_, delta := s.sensorState()
	line1 := fmt.Sprintf("Touch delta: [#ffff00]%+5d[white] | Hit [#ff0000]+[white]/[#ff0000]-[white] to change", delta)
	line2 := "Hit [blue]Space[-] to touch the ornament"
	line3 := "Hit [#ff0000]q[-] to exit, [#ff0000]r[-] to reload, [#ff0000]Up/Down[-] to scroll logs"
	return fmt.Sprintf("%s\n%s\n%s", line1, line2, line3)
}

func (s *TUIPlatform) initSimulationTUI() {
	s.tviewapp = tview.NewApplication()

	// --- Intro Pane ---
	s.intro = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	s.intro.SetText(s.getIntroText())
	s.intro.SetBorder(true).SetTitle(" GOORNAMENT Simulation ").SetTitleColor(tcell.ColorLightBlue)
	s.intro.SetBackgroundColor(tcell.NewRGBColor(20, 20, 20))

	// --- LED Display Pane ---
	s.ledDisplay = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	s.ledDisplay.SetBorder(true)
	s.ledDisplay.SetBackgroundColor(tcell.NewRGBColor(30, 30, 30))

	// --- Log Pane ---
	s.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetChangedFunc(func() {
			s.logView.ScrollToEnd()
			s.tviewapp.Draw()
		})
	s.logView.SetBorder(true).SetTitle(" Logs ").SetTitleColor(tcell.ColorLightBlue)
	s.logView.SetBackgroundColor(tcell.NewRGBColor(40, 40, 40))

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.intro, 5, 0, false).
		AddItem(s.ledDisplay, 5, 0, false).
		AddItem(s.logView, 0, 1, true)

	// --- Flush logs after first draw ---
	s.tviewapp.SetAfterDrawFunc(func(screen tcell.Screen) {
		s.logFlushOnce.Do(func() {
			logWriter := tview.ANSIWriter(s.logView)
			if err := logging.SetOutput(logWriter); err != nil {
				slog.Error("Failed to redirect logs to TUI", "error", err)
			}
			close(s.readyChan)
		})
	})

	s.tviewapp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			s.ossignalChan <- os.Interrupt
			return nil
		case tcell.KeyUp:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row-1, col)
			return nil
		case tcell.KeyDown:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row+1, col)
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case ' ':
				s.Touch()
				return nil
			case 'q', 'Q':
				s.ossignalChan <- os.Interrupt
				return nil
			case 'r', 'R':
				s.ossignalChan <- syscall.SIGHUP
				return nil
			case '+':
				s.changeTouchDelta(10)
				s.intro.SetText(s.getIntroText())
				return nil
			case '-':
				s.changeTouchDelta(-10)
				s.intro.SetText(s.getIntroText())
				return nil
			}
		}
		return event
	})

	go func() {
		if err := s.tviewapp.SetRoot(layout, true).Run(); err != nil {
			slog.Error("Error running TUI", "error", err)
			s.ossignalChan <- os.Interrupt
		}
	}()
}

// renderRing draws every LED as a coloured dot. Dark LEDs are shown as
// a grey ring outline.
func renderRing(leds []a.Led) string {
	var buf strings.Builder
	buf.Grow(len(leds) * len(" [#000000]●[-]"))
	for _, led := range leds {
		buf.WriteString(" ")
		if led.IsEmpty() {
			buf.WriteString("[#505050]○[-]")
			continue
		}
		buf.WriteString(scaledColor(led))
		buf.WriteString("●[-]")
	}
	return buf.String()
}

// scaledColor stretches the colour to full intensity so that dimmed
// LEDs stay readable in the terminal.
func scaledColor(led a.Led) string {
	red, green, blue := float64(led.Red), float64(led.Green), float64(led.Blue)
	maxColor := math.Max(red, math.Max(green, blue))
	if maxColor == 0 {
		return "[#000000]"
	}
	factor := 255 / maxColor

	const epsilon = 1e-9

	return fmt.Sprintf("[#%02x%02x%02x]",
		byte(math.Min(math.Round(red*factor+epsilon), 255)),
		byte(math.Min(math.Round(green*factor+epsilon), 255)),
		byte(math.Min(math.Round(blue*factor+epsilon), 255)))
}
