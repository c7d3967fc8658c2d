package touch

import (
	"log/slog"
	"time"

	c "lautenbacher.net/goornament/config"
)

// Detector compares smoothed sensor readings against the baseline taken
// at startup and raises one touch per gesture. The threshold is static
// and the baseline is never recalibrated, so slow drift of the resting
// value is not compensated.
type Detector struct {
	sensor        Sensor
	baseline      int
	threshold     int
	samples       int
	sampleDelay   time.Duration
	debugInterval time.Duration
	lastDebug     time.Time
	history       *History
	sleep         func(time.Duration)
}

// Calibrate lets the input settle and returns the average of the
// configured number of samples. It must run while nobody touches the
// ornament.
func Calibrate(sensor Sensor, conf c.TouchConfig) int {
	return calibrate(sensor, conf, time.Sleep)
}

func calibrate(sensor Sensor, conf c.TouchConfig, sleep func(time.Duration)) int {
	sleep(conf.StabilizeDelay)
	total := 0
	for i := 0; i < conf.CalibrationSamples; i++ {
		total += sensor.ReadRaw()
		sleep(conf.CalibrationDelay)
	}
	return total / conf.CalibrationSamples
}

func NewDetector(sensor Sensor, baseline int, conf c.TouchConfig, debugInterval time.Duration) *Detector {
	return &Detector{
		sensor:        sensor,
		baseline:      baseline,
		threshold:     conf.Threshold,
		samples:       conf.SmoothingSamples,
		sampleDelay:   conf.SampleDelay,
		debugInterval: debugInterval,
		history:       NewHistory(conf.HistorySize),
		sleep:         time.Sleep,
	}
}

func (d *Detector) Baseline() int {
	return d.baseline
}

func (d *Detector) Threshold() int {
	return d.threshold
}

func (d *Detector) History() *History {
	return d.history
}

// Read takes the configured number of samples and returns their
// integer average.
func (d *Detector) Read() int {
	total := 0
	for i := 0; i < d.samples; i++ {
		total += d.sensor.ReadRaw()
		d.sleep(d.sampleDelay)
	}
	reading := total / d.samples
	d.history.Add(reading)
	return reading
}

// Poll reads the sensor once and marks state as pending if the reading
// is far enough away from the baseline and no touch is pending yet. The
// returned bool is true only for that edge. With idle set a diagnostic
// line is logged at most once per debug interval.
func (d *Detector) Poll(now time.Time, state *State, idle bool) (Event, bool) {
	reading := d.Read()
	difference := abs(reading - d.baseline)

	var event Event
	triggered := false
	if difference > d.threshold && !state.Pending {
		state.Pending = true
		state.TriggeredAt = now
		event = Event{
			Reading:    reading,
			Baseline:   d.baseline,
			Difference: difference,
			Timestamp:  now,
		}
		triggered = true
		slog.Info("Touch detected", "difference", difference, "current", reading, "baseline", d.baseline)
	}

	if idle && now.Sub(d.lastDebug) > d.debugInterval {
		st := d.history.Stats()
		slog.Debug("Touch sensor",
			"current", reading,
			"baseline", d.baseline,
			"difference", difference,
			"min", st.Min,
			"max", st.Max,
			"mean", st.Mean,
			"stddev", st.StdDev)
		d.lastDebug = now
	}

	return event, triggered
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
