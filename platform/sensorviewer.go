package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"lautenbacher.net/goornament/touch"
)

const viewerTitle = " GOORNAMENT Sensor Viewer "

// SensorViewer shows live statistics of the touch sensor, to help with
// choosing a threshold for a given electrode.
type SensorViewer struct {
	tuiApp   *tview.Application
	view     *tview.TextView
	detector *touch.Detector
	ossignal chan os.Signal
	touch    func()
	stopOnce sync.Once
}

func NewSensorViewer(detector *touch.Detector, ossignal chan os.Signal) *SensorViewer {
	return &SensorViewer{
		tuiApp:   tview.NewApplication(),
		detector: detector,
		ossignal: ossignal,
	}
}

// Run samples the sensor every loopDelay and redraws the viewer until
// ctx is cancelled.
func (sv *SensorViewer) Run(ctx context.Context, loopDelay time.Duration) error {
	sv.setupUI()
	go func() {
		if err := sv.tuiApp.Run(); err != nil {
			slog.Error("Error running SensorViewer TUI", "error", err)
			sv.ossignal <- os.Interrupt
		}
	}()
	defer sv.Stop()

	ticker := time.NewTicker(loopDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping SensorViewer TUI...")
			return ctx.Err()
		case <-ticker.C:
			reading := sv.detector.Read()
			text := sv.prepareDisplayText(reading)
			sv.tuiApp.QueueUpdateDraw(func() {
				sv.view.SetText(text)
			})
		}
	}
}

// SetTouchFunc binds the space bar to a simulated touch.
func (sv *SensorViewer) SetTouchFunc(touch func()) {
	sv.touch = touch
}

func (sv *SensorViewer) Stop() {
	sv.stopOnce.Do(sv.tuiApp.Stop)
}

func (sv *SensorViewer) setupUI() {
	sv.view = tview.NewTextView()
	sv.view.SetDynamicColors(true)
	sv.view.SetTextAlign(tview.AlignLeft)
	sv.view.SetBackgroundColor(tcell.ColorDarkSlateGray)
	sv.view.SetBorder(true).SetTitle(viewerTitle).SetTitleColor(tcell.ColorLightBlue)

	intro := tview.NewTextView()
	intro.SetBorder(true).SetTitle(" GOORNAMENT Simulation ").SetTitleColor(tcell.ColorLightBlue)
	intro.SetText("Displaying touch sensor values.\nHit [#ff0000]q[-] to exit, [#ff0000]r[-] to reload config file and restart")
	intro.SetTextAlign(tview.AlignCenter)
	intro.SetDynamicColors(true)
	intro.SetBackgroundColor(tcell.ColorDarkSlateGray)

	layout := tview.NewFlex().SetDirection(tview.FlexRow)
	layout.AddItem(intro, 4, 1, false)
	layout.AddItem(sv.view, 6, 1, true)

	sv.tuiApp.SetRoot(layout, true).SetFocus(sv.view)
	sv.tuiApp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case ' ':
			if sv.touch != nil {
				sv.touch()
			}
		case 'q', 'Q':
			sv.ossignal <- os.Interrupt
		case 'r', 'R':
			sv.ossignal <- syscall.SIGHUP
		}
		return event
	})
}

func (sv *SensorViewer) prepareDisplayText(reading int) string {
	baseline := sv.detector.Baseline()
	threshold := sv.detector.Threshold()
	st := sv.detector.History().Stats()

	difference := reading - baseline
	if difference < 0 {
		difference = -difference
	}
	marker := "[green]idle[-]"
	if difference > threshold {
		marker = "[red]TOUCH[-]"
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "[yellow] Current | Baseline | Threshold:[white] %4d | %4d | %4d  %s\n", reading, baseline, threshold, marker)
	fmt.Fprintf(&buf, "[yellow] [min|mean|median|max]:[white]      [%4d|%4.0f|%4.0f|%4d]\n", st.Min, st.Mean, st.Median, st.Max)
	fmt.Fprintf(&buf, "[yellow] Standard Deviation:[white]         %5.1f (%d samples)", st.StdDev, st.Count)
	return buf.String()
}
