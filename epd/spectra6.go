package epd

import (
	"fmt"
	"image/color"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/dither/geom"
	"github.com/BeatGlow/dither/pixel"
)

// UC8159-class controller commands, as used by six-color Spectra panels.
const (
	spectraPanelSetting     = 0x00 // PSR
	spectraPowerSetting     = 0x01 // PWR
	spectraPowerOff         = 0x02 // POF
	spectraPowerOn          = 0x04 // PON
	spectraBoosterSoftStart = 0x06 // BTST
	spectraDeepSleep        = 0x07 // DSLP
	spectraDataStart        = 0x10 // DTM1
	spectraDisplayRefresh   = 0x12 // DRF
	spectraPLLControl       = 0x30 // PLL
	spectraTempSensor       = 0x41 // TSE
	spectraVcomDataInterval = 0x50 // CDI
	spectraTconSetting      = 0x60 // TCON
	spectraResolution       = 0x61 // TRES
	spectraPowerSaving      = 0xe3 // PWS
)

// spectraCode maps vertex indices (White, Black, Red, Yellow, Green, Blue)
// to the controller's ink codes.
var spectraCode = [geom.NumVertices]byte{1, 0, 4, 5, 2, 3}

const (
	spectra6DefaultWidth  = 600
	spectra6DefaultHeight = 448

	spectraRefreshTimeout = 40 * time.Second
	spectraBusyPoll       = 10 * time.Millisecond
)

// Config is the panel configuration.
type Config struct {
	// Width and Height of the panel in pixels.
	Width  int
	Height int

	// Palette holds the display color per ink, in vertex order. Nil
	// keeps the image palette empty until the caller draws by index.
	Palette color.Palette

	// Busy is the controller's busy pin (low while the panel is busy).
	// When nil the driver falls back to fixed delays.
	Busy gpio.PinIn
}

// Spectra6 is a six-color Spectra e-paper panel behind a UC8159-class
// controller. The embedded image is the local framebuffer; Refresh streams
// it to the panel.
type Spectra6 struct {
	*pixel.Image

	c      Conn
	busy   gpio.PinIn
	halted bool
}

// NewSpectra6 initializes a Spectra panel on the given connection.
func NewSpectra6(conn Conn, config *Config) (*Spectra6, error) {
	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = spectra6DefaultWidth
	}
	if config.Height == 0 {
		config.Height = spectra6DefaultHeight
	}
	if config.Width%2 != 0 {
		return nil, fmt.Errorf("epd: Spectra 6 requires an even width, got %d", config.Width)
	}

	d := &Spectra6{
		Image: pixel.NewImage(config.Width, config.Height, config.Palette),
		c:     conn,
		busy:  config.Busy,
	}
	if err := d.init(config); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Spectra6) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("Spectra 6 EPD %dx%d", bounds.Dx(), bounds.Dy())
}

func (d *Spectra6) init(config *Config) (err error) {
	if err = d.reset(); err != nil {
		return
	}

	var (
		w = config.Width
		h = config.Height
	)
	if err = d.commands(
		[]byte{spectraPanelSetting, 0xef, 0x08},
		[]byte{spectraPowerSetting, 0x37, 0x00, 0x23, 0x23},
		[]byte{spectraBoosterSoftStart, 0xc7, 0xc7, 0x1d},
		[]byte{spectraPLLControl, 0x3c},
		[]byte{spectraTempSensor, 0x00},
		[]byte{spectraVcomDataInterval, 0x37},
		[]byte{spectraTconSetting, 0x22},
		[]byte{spectraResolution, byte(w >> 8), byte(w), byte(h >> 8), byte(h)},
		[]byte{spectraPowerSaving, 0xaa},
	); err != nil {
		return
	}

	return d.wait(time.Second)
}

func (d *Spectra6) reset() error {
	if err := d.c.Reset(gpio.Low); err != nil {
		return err
	}
	time.Sleep(100 * time.Millisecond)
	if err := d.c.Reset(gpio.High); err != nil {
		return err
	}
	return d.wait(time.Second)
}

func (d *Spectra6) commands(commands ...[]byte) (err error) {
	for _, command := range commands {
		if err = d.c.Command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

// wait blocks until the busy pin reports ready, or the timeout expires.
// Without a busy pin it sleeps for a fixed fraction of the timeout.
func (d *Spectra6) wait(timeout time.Duration) error {
	if d.busy == nil {
		time.Sleep(timeout / 10)
		return nil
	}

	deadline := time.Now().Add(timeout)
	for d.busy.Read() == gpio.Low {
		if time.Now().After(deadline) {
			return fmt.Errorf("epd: %s busy for more than %s", d, timeout)
		}
		time.Sleep(spectraBusyPoll)
	}
	return nil
}

// Refresh streams the framebuffer to the panel and triggers a display
// update. The framebuffer's 4bpp packing matches the controller's data
// format; only the ink codes are remapped.
func (d *Spectra6) Refresh() (err error) {
	if err = d.c.Command(spectraDataStart, d.packed()...); err != nil {
		return
	}
	if err = d.c.Command(spectraPowerOn); err != nil {
		return
	}
	if err = d.wait(spectraRefreshTimeout); err != nil {
		return
	}
	if err = d.c.Command(spectraDisplayRefresh); err != nil {
		return
	}
	if err = d.wait(spectraRefreshTimeout); err != nil {
		return
	}
	if err = d.c.Command(spectraPowerOff); err != nil {
		return
	}
	return d.wait(spectraRefreshTimeout)
}

// packed returns the framebuffer with palette indices remapped to ink
// codes, two pixels per byte.
func (d *Spectra6) packed() []byte {
	out := make([]byte, len(d.Pix))
	for i, b := range d.Pix {
		var (
			hi = b >> 4
			lo = b & 0xf
		)
		if int(hi) < len(spectraCode) {
			hi = spectraCode[hi]
		}
		if int(lo) < len(spectraCode) {
			lo = spectraCode[lo]
		}
		out[i] = hi<<4 | lo
	}
	return out
}

// Sleep puts the panel into deep sleep. Reset wakes it again.
func (d *Spectra6) Sleep() error {
	if d.halted {
		return nil
	}
	if err := d.c.Command(spectraDeepSleep, 0xa5); err != nil {
		return err
	}
	d.halted = true
	return nil
}

// Close puts the panel to sleep and closes the connection.
func (d *Spectra6) Close() error {
	if err := d.Sleep(); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}
