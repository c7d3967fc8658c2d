package platform

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"

	a "lautenbacher.net/goornament/animation"
	"lautenbacher.net/goornament/config"
)

// RaspberryPiPlatform drives an APA102 or WS2801 ring and reads the
// touch electrode through an MCP3008 ADC. Both share SPI0 and are
// selected by their chip select line.
type RaspberryPiPlatform struct {
	*AbstractPlatform
	ledDriver ledDriver
	spiMutex  sync.Mutex
	readyChan chan bool
}

func NewRaspberryPiPlatform(conf *config.Config) *RaspberryPiPlatform {
	inst := &RaspberryPiPlatform{
		readyChan: make(chan bool),
	}
	inst.AbstractPlatform = newAbstractPlatform(conf, inst.rpiDisplayFunc)
	return inst
}

func (s *RaspberryPiPlatform) Ready() <-chan bool {
	return s.readyChan
}

func (s *RaspberryPiPlatform) Start() error {
	slog.Info("Initialise GPIO and Spi...")
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("failed to open rpio: %w", err)
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		rpio.Close()
		return fmt.Errorf("failed to begin spi: %w", err)
	}
	rpio.SpiSpeed(s.config.Hardware.SPIFrequency)

	switch strings.ToUpper(s.config.Hardware.LEDType) {
	case "APA102":
		s.ledDriver = newApa102Driver(s.config.Hardware.Display)
	case "WS2801":
		s.ledDriver = newWs2801Driver(s.config.Hardware.Display)
	default:
		s.closeSpi()
		return fmt.Errorf("unknown LED type: %s", s.config.Hardware.LEDType)
	}

	close(s.readyChan) // For RPi, we are ready immediately.
	return nil
}

func (s *RaspberryPiPlatform) Stop() {
	// switch the ring off before the display is blocked
	s.Clear()
	s.Flush()
	s.setInShutdown()
	s.closeSpi()
}

func (s *RaspberryPiPlatform) closeSpi() {
	s.spiMutex.Lock()
	defer s.spiMutex.Unlock()
	rpio.SpiEnd(rpio.Spi0)
	if err := rpio.Close(); err != nil {
		slog.Error("Error closing rpio", "error", err)
	}
}

func (s *RaspberryPiPlatform) rpiDisplayFunc(leds []a.Led) {
	if s.ledDriver == nil {
		return
	}
	s.ledDriver.write(leds, func(data []byte) {
		s.spiExchange(s.config.Hardware.LedChip, data)
	})
}

func (s *RaspberryPiPlatform) spiExchange(chip uint8, data []byte) []byte {
	s.spiMutex.Lock()
	defer s.spiMutex.Unlock()
	rpio.SpiChipSelect(chip)
	rpio.SpiExchange(data)
	return data
}

// ReadRaw reads the touch channel of the MCP3008 in single ended mode.
func (s *RaspberryPiPlatform) ReadRaw() int {
	write := mcp3008Request(s.config.Hardware.Touch.AdcChannel)
	read := s.spiExchange(s.config.Hardware.AdcChip, write)
	return mcp3008Value(read)
}

func mcp3008Request(channel byte) []byte {
	return []byte{1, (8 + channel) << 4, 0}
}

func mcp3008Value(read []byte) int {
	return ((int(read[1]) & 3) << 8) + int(read[2])
}

// ledDriver interface and implementations
type ledDriver interface {
	write(leds []a.Led, exchange func([]byte))
}

func corrected(value byte, factor float64) byte {
	return byte(math.Min(float64(value)*factor, 255))
}

type ws2801Driver struct {
	displayConfig config.DisplayConfig
	buffer        []byte
}

func newWs2801Driver(displayConfig config.DisplayConfig) *ws2801Driver {
	return &ws2801Driver{
		displayConfig: displayConfig,
		buffer:        make([]byte, 3*displayConfig.LedsTotal),
	}
}

func (d *ws2801Driver) write(leds []a.Led, exchange func([]byte)) {
	cc := d.displayConfig.ColorCorrection
	display := d.buffer[:3*len(leds)]
	for idx, led := range leds {
		display[3*idx] = corrected(led.Red, cc[0])
		display[(3*idx)+1] = corrected(led.Green, cc[1])
		display[(3*idx)+2] = corrected(led.Blue, cc[2])
	}
	exchange(display)
}

type apa102Driver struct {
	displayConfig config.DisplayConfig
	buffer        []byte
}

func newApa102Driver(displayConfig config.DisplayConfig) *apa102Driver {
	frameEndLength := (displayConfig.LedsTotal / 16) + 1
	return &apa102Driver{
		displayConfig: displayConfig,
		buffer:        make([]byte, 4+(4*displayConfig.LedsTotal)+frameEndLength),
	}
}

func (d *apa102Driver) write(leds []a.Led, exchange func([]byte)) {
	cc := d.displayConfig.ColorCorrection
	frameEndLength := (len(leds) / 16) + 1
	display := d.buffer[:4+(4*len(leds))+frameEndLength]

	// Frame start: 4 zero bytes
	copy(display[0:4], []byte{0x00, 0x00, 0x00, 0x00})

	// Fixed general brightness
	brightness := d.displayConfig.APA102Brightness | 0xE0

	offset := 4
	for _, led := range leds {
		// protocol: brightness byte, blue, green, red
		display[offset] = brightness
		display[offset+1] = corrected(led.Blue, cc[2])
		display[offset+2] = corrected(led.Green, cc[1])
		display[offset+3] = corrected(led.Red, cc[0])
		offset += 4
	}

	// Frame end: fill the rest of the slice with 0xFF
	for i := offset; i < len(display); i++ {
		display[i] = 0xFF
	}
	exchange(display)
}
