// Command epd-push sends a dithered image to a six-color Spectra e-paper
// panel over SPI.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/dither/epd"
	"github.com/BeatGlow/dither/palette"
)

func main() {
	var (
		widthFlag    = flag.Int("width", 0, "panel width in pixels")
		heightFlag   = flag.Int("height", 0, "panel height in pixels")
		paletteFlag  = flag.String("palette", "", "palette YAML file (default: built-in Spectra 6)")
		spiBusFlag   = flag.Int("spi-bus", 0, "SPI bus")
		spiDevFlag   = flag.Int("spi-dev", 0, "SPI device")
		spiSpeedFlag = flag.Uint("spi-speed", 0, "SPI speed in Hz (0 = default)")
		resetPinFlag = flag.String("reset", "GPIO17", "reset GPIO pin")
		dcPinFlag    = flag.String("dc", "GPIO25", "data/command GPIO pin (DC)")
		cePinFlag    = flag.String("ce", "", "chip enable GPIO pin (empty: hardware CS)")
		busyPinFlag  = flag.String("busy", "GPIO24", "busy GPIO pin")
	)
	flag.Parse()

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.TimeOnly}))

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <image>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	pal := palette.Spectra6()
	if *paletteFlag != "" {
		var err error
		if pal, err = palette.Load(*paletteFlag); err != nil {
			log.Error("loading palette", "path", *paletteFlag, "error", err)
			os.Exit(1)
		}
	}

	img, _, err := loadImage(flag.Arg(0))
	if err != nil {
		log.Error("loading image", "path", flag.Arg(0), "error", err)
		os.Exit(1)
	}

	if _, err = host.Init(); err != nil {
		log.Error("initializing host", "error", err)
		os.Exit(1)
	}

	config := &epd.SPIConfig{
		Bus:     *spiBusFlag,
		Device:  *spiDevFlag,
		SpeedHz: uint32(*spiSpeedFlag),
		Reset:   gpioreg.ByName(*resetPinFlag),
		DC:      gpioreg.ByName(*dcPinFlag),
	}
	if *cePinFlag != "" {
		config.CE = gpioreg.ByName(*cePinFlag)
	}

	conn, err := epd.OpenSPI(config)
	if err != nil {
		log.Error("opening SPI", "error", err)
		os.Exit(1)
	}

	panel, err := epd.NewSpectra6(conn, &epd.Config{
		Width:   *widthFlag,
		Height:  *heightFlag,
		Palette: pal.ColorPalette(),
		Busy:    gpioreg.ByName(*busyPinFlag),
	})
	if err != nil {
		log.Error("initializing panel", "error", err)
		_ = conn.Close()
		os.Exit(1)
	}
	defer panel.Close()

	log.Info("panel ready", "panel", panel.String(), "conn", conn.String())

	// The image is expected to contain palette colors only (the output of
	// epd-dither); anything else snaps to the nearest palette color.
	draw.Draw(panel, panel.Bounds(), img, img.Bounds().Min, draw.Src)

	start := time.Now()
	if err = panel.Refresh(); err != nil {
		log.Error("refreshing panel", "error", err)
		os.Exit(1)
	}
	log.Info("refreshed panel", "took", time.Since(start))
}

func loadImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	return image.Decode(f)
}
