package pixeltext

import "github.com/gogpu/pixeltext/shaping"

// RasterizeText lays out text on one line at size pixels and returns a
// single coverage bitmap spanning every glyph.
//
// Glyph bitmaps come from Rasterize, so they are cached. Each is stamped
// at its placement, truncated to whole pixels with negative offsets
// clamped to zero. Where glyphs overlap, the later glyph in layout order
// overwrites the earlier one; nothing is blended.
func (r *Rasterizer) RasterizeText(text string, size int) *Bitmap {
	if text == "" || size <= 0 {
		return emptyBitmap
	}

	placements := r.shaper.Layout(text, size)
	width, height := canvasSize(placements)
	if width <= 0 || height <= 0 {
		return emptyBitmap
	}

	canvas := &Bitmap{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height),
	}
	for _, p := range placements {
		canvas.stamp(r.Rasterize(p.Char, size), p)
	}
	return canvas
}

// canvasSize returns the bounding size of all placements.
func canvasSize(placements []shaping.Placement) (width, height int) {
	for _, p := range placements {
		x, y := placementOrigin(p)
		width = max(width, x+max(p.Width, 0))
		height = max(height, y+max(p.Height, 0))
	}
	return width, height
}

// placementOrigin truncates a placement's offset to whole pixels.
func placementOrigin(p shaping.Placement) (x, y int) {
	return int(max(p.X, 0)), int(max(p.Y, 0))
}

// stamp copies glyph's pixels into b at p. The copied area is limited to
// the smaller of the placement size and the glyph size, which keeps every
// write inside the canvas computed by canvasSize.
func (b *Bitmap) stamp(glyph *Bitmap, p shaping.Placement) {
	ox, oy := placementOrigin(p)
	w := min(p.Width, glyph.Width())
	h := min(p.Height, glyph.Height())
	if w <= 0 || h <= 0 {
		return
	}
	for row := 0; row < h; row++ {
		dst := (oy+row)*b.width + ox
		src := row * glyph.width
		copy(b.pix[dst:dst+w], glyph.pix[src:src+w])
	}
}
