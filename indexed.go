package pixeltext

import "image"

// IndexedImage is a mutable grid of palette indices, the target of
// ImprintText. Pixel (x, y) is stored at Pix[y*Stride+x].
//
// IndexedImage is not safe for concurrent use; callers sharing one image
// across goroutines must serialize writes.
type IndexedImage struct {
	Pix    []uint8
	Stride int
	Width  int
	Height int
}

// NewIndexedImage creates a width×height image filled with index 0.
func NewIndexedImage(width, height int) *IndexedImage {
	width, height = max(width, 0), max(height, 0)
	return &IndexedImage{
		Pix:    make([]uint8, width*height),
		Stride: width,
		Width:  width,
		Height: height,
	}
}

// IndexedFromPaletted returns an IndexedImage that shares pixel storage
// with p, so imprinting onto it draws into p. Pixel (0, 0) of the result is
// p.Rect.Min.
func IndexedFromPaletted(p *image.Paletted) *IndexedImage {
	r := p.Rect
	if r.Empty() {
		return &IndexedImage{}
	}
	return &IndexedImage{
		Pix:    p.Pix[p.PixOffset(r.Min.X, r.Min.Y):],
		Stride: p.Stride,
		Width:  r.Dx(),
		Height: r.Dy(),
	}
}

// InBounds reports whether (x, y) is a pixel of the image.
func (m *IndexedImage) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// ColorIndexAt returns the index at (x, y), or 0 outside the image.
func (m *IndexedImage) ColorIndexAt(x, y int) uint8 {
	if !m.InBounds(x, y) {
		return 0
	}
	return m.Pix[y*m.Stride+x]
}

// SetColorIndex sets the index at (x, y). Writes outside the image are
// ignored.
func (m *IndexedImage) SetColorIndex(x, y int, index uint8) {
	if !m.InBounds(x, y) {
		return
	}
	m.Pix[y*m.Stride+x] = index
}

// Fill sets every pixel to index.
func (m *IndexedImage) Fill(index uint8) {
	for y := 0; y < m.Height; y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+m.Width]
		for x := range row {
			row[x] = index
		}
	}
}

// Paletted copies the image into a new *image.Paletted using p's colors.
func (m *IndexedImage) Paletted(p *Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, m.Width, m.Height), p.ColorPalette())
	for y := 0; y < m.Height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+m.Width], m.Pix[y*m.Stride:y*m.Stride+m.Width])
	}
	return img
}
