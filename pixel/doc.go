// Package pixel implements the packed indexed image format emitted by the
// dithering engine and consumed by six-color e-paper framebuffers.
//
// The format is compatible with Go's native [color.Color] and [image.Image]
// / [draw.Image] interfaces.
package pixel
