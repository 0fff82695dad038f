package noise

import (
	"errors"
	"image"
	"image/color"
)

var ErrEmptyTexture = errors.New("noise: texture has no pixels")

// Texture samples a pre-rendered noise field, such as a blue-noise tile,
// wrapping it in both directions to cover arbitrary image dimensions. The
// field is converted to scalars once at construction; lookups afterwards
// are read-only.
type Texture struct {
	w, h   int
	values []float64
}

// NewTexture converts a grayscale rendering of img into a noise field. The
// 16-bit luma of each pixel maps to [0, 1).
func NewTexture(img image.Image) (*Texture, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, ErrEmptyTexture
	}

	t := &Texture{
		w:      w,
		h:      h,
		values: make([]float64, w*h),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			t.values[y*w+x] = float64(g.Y) / 65536
		}
	}
	return t, nil
}

// Bounds is the size of one tile of the field.
func (t *Texture) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.w, t.h)
}

func (t *Texture) At(x, y int) float64 {
	if x %= t.w; x < 0 {
		x += t.w
	}
	if y %= t.h; y < 0 {
		y += t.h
	}
	return t.values[y*t.w+x]
}
