package shaping

import (
	"image"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Metrics describes the coverage bitmap of one glyph at one size.
type Metrics struct {
	// Width and Height are the bitmap dimensions in pixels.
	Width, Height int

	// XMin, YMin locate the bitmap's top-left corner relative to the pen
	// position on the baseline (YMin is negative above the baseline).
	XMin, YMin int

	// Advance is the horizontal advance in pixels.
	Advance float64
}

// Empty reports whether the glyph has no pixels.
func (m Metrics) Empty() bool {
	return m.Width <= 0 || m.Height <= 0
}

// MetricsAndCoverage rasterizes r at size pixels per em.
//
// The coverage slice is row-major, Width*Height bytes long, 0 meaning no
// ink and 255 full ink. A character missing from the font, a blank glyph
// such as space, or a non-positive size gives empty metrics and a nil
// slice.
func (e *Engine) MetricsAndCoverage(r rune, size int) (Metrics, []uint8) {
	if size <= 0 {
		return Metrics{}, nil
	}

	face, err := e.newFace(size)
	if err != nil {
		return Metrics{}, nil
	}
	defer func() {
		_ = face.Close()
	}()

	var buf sfnt.Buffer
	return e.render(face, &buf, r, true)
}

// render draws r at the origin of face. When withPix is false only the
// metrics are computed, through the same code path, so that layout and
// rasterization never disagree on glyph sizes.
func (e *Engine) render(face xfont.Face, buf *sfnt.Buffer, r rune, withPix bool) (Metrics, []uint8) {
	if e.font.glyphIndex(buf, r) == 0 {
		return Metrics{}, nil
	}

	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return Metrics{}, nil
	}

	m := Metrics{
		Width:   dr.Dx(),
		Height:  dr.Dy(),
		XMin:    dr.Min.X,
		YMin:    dr.Min.Y,
		Advance: fixedToFloat(advance),
	}
	if m.Empty() {
		return Metrics{Advance: m.Advance}, nil
	}
	if !withPix {
		return m, nil
	}

	return m, copyCoverage(mask, maskp, m.Width, m.Height)
}

// copyCoverage copies a w×h window of mask starting at maskp into a
// row-major byte slice. The mask is only valid until the face draws again.
func copyCoverage(mask image.Image, maskp image.Point, w, h int) []uint8 {
	pix := make([]uint8, w*h)

	if a, ok := mask.(*image.Alpha); ok {
		for y := 0; y < h; y++ {
			off := a.PixOffset(maskp.X, maskp.Y+y)
			copy(pix[y*w:(y+1)*w], a.Pix[off:off+w])
		}
		return pix
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, alpha := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			pix[y*w+x] = uint8(alpha >> 8) //nolint:gosec // 16-bit alpha shifted to 8 bits
		}
	}
	return pix
}
