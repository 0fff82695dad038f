// Command epd-dither converts an image to the six-color palette of a
// Spectra e-paper panel and writes the result as PNG and, optionally, as a
// raw packed framebuffer ready for the panel.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	xdraw "golang.org/x/image/draw"

	"github.com/BeatGlow/dither"
	"github.com/BeatGlow/dither/noise"
	"github.com/BeatGlow/dither/palette"
)

const noiseHelp = `noise source:
  ign                 interleaved gradient noise
  bayer               unbounded Bayer pattern
  bayer:<depth>       Bayer matrix of size 2^depth
  white               coordinate-hashed white noise
  white:<seed>        same, with an explicit seed
  file:<image>        tiled noise texture (e.g. a blue-noise PNG)`

func main() {
	var (
		paletteFlag = flag.String("palette", "", "palette YAML file (default: built-in Spectra 6)")
		noiseFlag   = flag.String("noise", "ign", noiseHelp)
		widthFlag   = flag.Int("width", 0, "scale to this width before dithering (0 keeps source size)")
		heightFlag  = flag.Int("height", 0, "scale to this height before dithering (0 keeps source size)")
		workersFlag = flag.Int("workers", 0, "parallel workers (0 = all CPUs)")
		rawFlag     = flag.String("raw", "", "also write the packed 4bpp framebuffer to this file")
		debugFlag   = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input> <output.png>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))

	pal := palette.Spectra6()
	if *paletteFlag != "" {
		var err error
		if pal, err = palette.Load(*paletteFlag); err != nil {
			log.Error("loading palette", "path", *paletteFlag, "error", err)
			os.Exit(1)
		}
	}

	src, err := parseNoise(*noiseFlag)
	if err != nil {
		log.Error("parsing noise source", "error", err)
		os.Exit(1)
	}

	d, err := dither.New(&dither.Config{
		Palette: pal,
		Noise:   src,
		Workers: *workersFlag,
	})
	if err != nil {
		log.Error("invalid palette geometry", "error", err)
		os.Exit(1)
	}

	img, format, err := loadImage(flag.Arg(0))
	if err != nil {
		log.Error("loading image", "path", flag.Arg(0), "error", err)
		os.Exit(1)
	}
	log.Debug("loaded image", "format", format, "bounds", img.Bounds())

	if *widthFlag > 0 || *heightFlag > 0 {
		img = resize(img, *widthFlag, *heightFlag)
		log.Debug("scaled image", "bounds", img.Bounds())
	}

	start := time.Now()
	out := d.Dither(img)
	log.Info("dithered image",
		"size", fmt.Sprintf("%dx%d", out.Rect.Dx(), out.Rect.Dy()),
		"noise", *noiseFlag,
		"took", time.Since(start))

	if err = writePNG(flag.Arg(1), out); err != nil {
		log.Error("writing output", "path", flag.Arg(1), "error", err)
		os.Exit(1)
	}

	if *rawFlag != "" {
		if err = os.WriteFile(*rawFlag, out.Pix, 0o644); err != nil {
			log.Error("writing framebuffer", "path", *rawFlag, "error", err)
			os.Exit(1)
		}
		log.Info("wrote framebuffer", "path", *rawFlag, "bytes", len(out.Pix))
	}
}

func parseNoise(s string) (noise.Source, error) {
	switch {
	case s == "ign" || s == "interleaved-gradient-noise":
		return noise.IGN{}, nil

	case s == "bayer":
		return noise.Bayer{}, nil

	case strings.HasPrefix(s, "bayer:"):
		depth, err := strconv.Atoi(s[len("bayer:"):])
		if err != nil || depth < 1 {
			return nil, fmt.Errorf("invalid value %q: expected bayer:<depth> with a positive depth", s)
		}
		return noise.Bayer{Depth: depth}, nil

	case s == "white":
		return noise.White{}, nil

	case strings.HasPrefix(s, "white:"):
		seed, err := strconv.ParseUint(s[len("white:"):], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: expected white:<seed>", s)
		}
		return noise.White{Seed: seed}, nil

	case strings.HasPrefix(s, "file:"):
		img, _, err := loadImage(s[len("file:"):])
		if err != nil {
			return nil, err
		}
		return noise.NewTexture(img)

	default:
		return nil, fmt.Errorf("unknown noise source %q", s)
	}
}

func loadImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	return image.Decode(f)
}

// resize scales img to w×h with Catmull-Rom interpolation. A zero dimension
// is derived from the other one, preserving the aspect ratio.
func resize(img image.Image, w, h int) image.Image {
	bounds := img.Bounds()
	if w == 0 {
		w = bounds.Dx() * h / bounds.Dy()
	}
	if h == 0 {
		h = bounds.Dy() * w / bounds.Dx()
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
