package pixel

import (
	"image"
	"image/color"
)

// Buffer holds the packed pixel values.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the packed image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// Image is a 4-bits per pixel palette-indexed image, packed two pixels per
// byte with the even column in the high nibble. This is the native memory
// layout of six-color e-paper framebuffers.
type Image struct {
	Buffer

	// Palette holds the display color per index, in palette order.
	Palette color.Palette
}

// NewImage returns a w×h image with all pixels set to index 0.
func NewImage(w, h int, palette color.Palette) *Image {
	return &Image{
		Buffer:  makeBuffer(w, h, (w+1)/2, h*((w+1)/2)),
		Palette: palette,
	}
}

func (p *Image) ColorModel() color.Model {
	return p.Palette
}

func (p *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return p.Palette[p.IndexAt(x, y)]
}

// IndexAt returns the palette index of the pixel at (x, y). Out-of-bounds
// coordinates return 0.
func (p *Image) IndexAt(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return 0
	}

	index := y*p.Stride + x>>1
	if x%2 == 0 {
		return p.Pix[index] >> 4
	}
	return p.Pix[index] & 0xf
}

// SetIndex sets the pixel at (x, y) to the given palette index.
func (p *Image) SetIndex(x, y int, i uint8) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	index := y*p.Stride + x>>1
	i &= 0xf
	if x%2 == 0 {
		p.Pix[index] = (p.Pix[index] & 0x0f) | i<<4
	} else {
		p.Pix[index] = (p.Pix[index] & 0xf0) | i
	}
}

// Set maps c to the nearest palette color. The dithering engine bypasses
// this and writes indices directly; Set exists for [draw.Image] interop.
func (p *Image) Set(x, y int, c color.Color) {
	p.SetIndex(x, y, uint8(p.Palette.Index(c)))
}

// Fill sets every pixel to the nearest palette color of c.
func (p *Image) Fill(c color.Color) {
	value := uint8(p.Palette.Index(c)) & 0xf
	value |= value << 4
	for i := range p.Pix {
		p.Pix[i] = value
	}
}
