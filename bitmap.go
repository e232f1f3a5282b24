package pixeltext

import (
	"bytes"
	"image"
)

// Bitmap is an immutable grid of 8-bit coverage values, stored row-major.
// 0 means no ink and 255 full ink.
//
// Bitmaps returned by a Rasterizer may be shared between the glyph cache
// and any number of callers, so Bitmap exposes no way to modify its
// pixels. A nil *Bitmap behaves as an empty 0×0 bitmap.
type Bitmap struct {
	width  int
	height int
	pix    []uint8
}

// emptyBitmap is shared by every 0×0 result.
var emptyBitmap = &Bitmap{}

// NewBitmap creates a width×height bitmap from row-major coverage bytes.
// The bitmap starts zero-filled and pix is copied row by row; a short pix
// leaves the remaining pixels at zero and extra bytes are ignored.
// Non-positive dimensions give an empty bitmap.
func NewBitmap(width, height int, pix []uint8) *Bitmap {
	if width <= 0 || height <= 0 {
		return emptyBitmap
	}
	b := &Bitmap{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height),
	}
	for y := 0; y < height; y++ {
		start := y * width
		if start >= len(pix) {
			break
		}
		copy(b.pix[start:start+width], pix[start:min(start+width, len(pix))])
	}
	return b
}

// Width returns the number of columns.
func (b *Bitmap) Width() int {
	if b == nil {
		return 0
	}
	return b.width
}

// Height returns the number of rows.
func (b *Bitmap) Height() int {
	if b == nil {
		return 0
	}
	return b.height
}

// Len returns the number of pixels, width*height. This is the weight of
// the bitmap in the glyph cache.
func (b *Bitmap) Len() int {
	if b == nil {
		return 0
	}
	return len(b.pix)
}

// Empty reports whether the bitmap has no pixels.
func (b *Bitmap) Empty() bool {
	return b.Len() == 0
}

// At returns the coverage at column x, row y, or 0 outside the bitmap.
func (b *Bitmap) At(x, y int) uint8 {
	if b == nil || x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0
	}
	return b.pix[y*b.width+x]
}

// Pix returns a copy of the row-major coverage bytes.
func (b *Bitmap) Pix() []uint8 {
	if b.Empty() {
		return nil
	}
	out := make([]uint8, len(b.pix))
	copy(out, b.pix)
	return out
}

// Equal reports whether two bitmaps have the same size and coverage.
func (b *Bitmap) Equal(o *Bitmap) bool {
	return b.Width() == o.Width() && b.Height() == o.Height() &&
		(b.Empty() || bytes.Equal(b.pix, o.pix))
}

// Alpha returns the bitmap as a new *image.Alpha anchored at (0, 0),
// suitable as a mask for image/draw.
func (b *Bitmap) Alpha() *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, b.Width(), b.Height()))
	if !b.Empty() {
		copy(img.Pix, b.pix)
	}
	return img
}
