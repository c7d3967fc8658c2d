package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

const CONFILE = "config.yml"

type Config struct {
	RealHW     bool   `yaml:"-"`
	SensorShow bool   `yaml:"-"`
	Configfile string `yaml:"-"`

	Hardware   HardwareConfig   `yaml:"Hardware"`
	Sequences  SequencesConfig  `yaml:"Sequences"`
	NightDim   NightDimConfig   `yaml:"NightDim"`
	Simulation SimulationConfig `yaml:"Simulation"`
	Logging    LoggingConfig    `yaml:"Logging"`
}

type HardwareConfig struct {
	LEDType      string        `yaml:"LEDType"`
	SPIFrequency int           `yaml:"SPIFrequency"`
	LedChip      uint8         `yaml:"LedChip"`
	AdcChip      uint8         `yaml:"AdcChip"`
	LoopDelay    time.Duration `yaml:"LoopDelay"`
	Display      DisplayConfig `yaml:"Display"`
	Touch        TouchConfig   `yaml:"Touch"`
}

type DisplayConfig struct {
	LedsTotal        int       `yaml:"LedsTotal"`
	Offset           int       `yaml:"Offset"`
	Reverse          bool      `yaml:"Reverse"`
	Brightness       int       `yaml:"Brightness"`
	ColorCorrection  []float64 `yaml:"ColorCorrection"`
	APA102Brightness byte      `yaml:"APA102_Brightness"`
}

// TouchConfig holds everything the touch detector needs: where the
// sensor is wired, how it is calibrated and how readings are smoothed.
type TouchConfig struct {
	AdcChannel         byte          `yaml:"AdcChannel"`
	Threshold          int           `yaml:"Threshold"`
	StabilizeDelay     time.Duration `yaml:"StabilizeDelay"`
	CalibrationSamples int           `yaml:"CalibrationSamples"`
	CalibrationDelay   time.Duration `yaml:"CalibrationDelay"`
	SmoothingSamples   int           `yaml:"SmoothingSamples"`
	SampleDelay        time.Duration `yaml:"SampleDelay"`
	HistorySize        int           `yaml:"HistorySize"`
}

type SequencesConfig struct {
	DebounceTime    time.Duration `yaml:"DebounceTime"`
	DebugInterval   time.Duration `yaml:"DebugInterval"`
	IntroFlash      time.Duration `yaml:"IntroFlash"`
	TwinkleRedGreen time.Duration `yaml:"TwinkleRedGreen"`
	RainbowChase    time.Duration `yaml:"RainbowChase"`
	BreathingGold   time.Duration `yaml:"BreathingGold"`
	CandyCaneFlash  time.Duration `yaml:"CandyCaneFlash"`
	WarmWhiteFade   time.Duration `yaml:"WarmWhiteFade"`
}

type NightDimConfig struct {
	Enabled         bool    `yaml:"Enabled"`
	Latitude        float64 `yaml:"Latitude"`
	Longitude       float64 `yaml:"Longitude"`
	NightBrightness int     `yaml:"NightBrightness"`
}

// SimulationConfig drives the fake touch sensor of the TUI platform.
type SimulationConfig struct {
	RestingValue int           `yaml:"RestingValue"`
	TouchDelta   int           `yaml:"TouchDelta"`
	TouchHold    time.Duration `yaml:"TouchHold"`
	Noise        int           `yaml:"Noise"`
}

type LoggingConfig struct {
	TUI LogConfig `yaml:"TUI"`
	HW  LogConfig `yaml:"HW"`
}

type LogConfig struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
	File   string `yaml:"File"`
}

// ReadConfig decodes and validates the config file. realp and sensp
// are the command line switches for real hardware and sensor show mode.
func ReadConfig(cfile string, realp bool, sensp bool) (*Config, error) {
	f, err := os.Open(cfile)
	if err != nil {
		return nil, fmt.Errorf("can't open config file %s: %w", cfile, err)
	}
	defer f.Close()

	var conf Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&conf); err != nil {
		return nil, fmt.Errorf("can't decode config file %s: %w", cfile, err)
	}
	conf.RealHW = realp
	conf.SensorShow = sensp
	conf.Configfile = cfile

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", cfile, err)
	}
	return &conf, nil
}

// ActiveLogging returns the logging profile for the current mode.
func (c *Config) ActiveLogging() LogConfig {
	if c.RealHW {
		return c.Logging.HW
	}
	return c.Logging.TUI
}

// Validate checks the whole configuration and reports every problem
// it finds in a single error.
func (c *Config) Validate() error {
	var errs []string

	hw := c.Hardware
	switch strings.ToUpper(hw.LEDType) {
	case "APA102", "WS2801":
	default:
		errs = append(errs, fmt.Sprintf("Hardware.LEDType %q must be one of APA102, WS2801", hw.LEDType))
	}
	if hw.SPIFrequency <= 0 {
		errs = append(errs, "Hardware.SPIFrequency must be greater than 0")
	}
	if hw.LedChip == hw.AdcChip {
		errs = append(errs, "Hardware.LedChip and Hardware.AdcChip must use different chip selects")
	}
	if hw.LoopDelay <= 0 {
		errs = append(errs, "Hardware.LoopDelay must be greater than 0")
	}

	d := hw.Display
	if d.LedsTotal <= 0 {
		errs = append(errs, "Hardware.Display.LedsTotal must be greater than 0")
	} else if d.Offset < 0 || d.Offset >= d.LedsTotal {
		errs = append(errs, fmt.Sprintf("Hardware.Display.Offset must be between 0 and %d", d.LedsTotal-1))
	}
	if d.Brightness < 0 || d.Brightness > 255 {
		errs = append(errs, "Hardware.Display.Brightness must be between 0 and 255")
	}
	if len(d.ColorCorrection) != 3 {
		errs = append(errs, "Hardware.Display.ColorCorrection must have exactly 3 elements")
	} else {
		for _, v := range d.ColorCorrection {
			if v < 0 {
				errs = append(errs, "Hardware.Display.ColorCorrection values must not be negative")
				break
			}
		}
	}
	if d.APA102Brightness > 31 {
		errs = append(errs, "Hardware.Display.APA102_Brightness must be between 0 and 31")
	}

	t := hw.Touch
	if t.AdcChannel > 7 {
		errs = append(errs, "Hardware.Touch.AdcChannel must be between 0 and 7")
	}
	if t.Threshold <= 0 {
		errs = append(errs, "Hardware.Touch.Threshold must be greater than 0")
	}
	if t.CalibrationSamples <= 0 {
		errs = append(errs, "Hardware.Touch.CalibrationSamples must be greater than 0")
	}
	if t.SmoothingSamples <= 0 {
		errs = append(errs, "Hardware.Touch.SmoothingSamples must be greater than 0")
	}
	if t.HistorySize <= 0 {
		errs = append(errs, "Hardware.Touch.HistorySize must be greater than 0")
	}
	if t.StabilizeDelay < 0 || t.CalibrationDelay < 0 || t.SampleDelay < 0 {
		errs = append(errs, "Hardware.Touch delays must not be negative")
	}

	s := c.Sequences
	durations := map[string]time.Duration{
		"DebounceTime":    s.DebounceTime,
		"DebugInterval":   s.DebugInterval,
		"TwinkleRedGreen": s.TwinkleRedGreen,
		"RainbowChase":    s.RainbowChase,
		"BreathingGold":   s.BreathingGold,
		"CandyCaneFlash":  s.CandyCaneFlash,
		"WarmWhiteFade":   s.WarmWhiteFade,
	}
	for _, name := range sortedKeys(durations) {
		if durations[name] <= 0 {
			errs = append(errs, fmt.Sprintf("Sequences.%s must be greater than 0", name))
		}
	}
	if s.IntroFlash < 0 {
		errs = append(errs, "Sequences.IntroFlash must not be negative")
	}

	if n := c.NightDim; n.Enabled {
		if n.Latitude < -90 || n.Latitude > 90 {
			errs = append(errs, "NightDim.Latitude must be between -90 and 90")
		}
		if n.Longitude < -180 || n.Longitude > 180 {
			errs = append(errs, "NightDim.Longitude must be between -180 and 180")
		}
		if n.NightBrightness < 0 || n.NightBrightness > 255 {
			errs = append(errs, "NightDim.NightBrightness must be between 0 and 255")
		}
	}

	sim := c.Simulation
	if sim.RestingValue < 0 || sim.RestingValue > 1023 {
		errs = append(errs, "Simulation.RestingValue must be between 0 and 1023")
	}
	if sim.TouchHold <= 0 {
		errs = append(errs, "Simulation.TouchHold must be greater than 0")
	}
	if sim.Noise < 0 {
		errs = append(errs, "Simulation.Noise must not be negative")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
