package pixeltext

// ImprintText blends bitmap onto target with its top-left corner at (x, y),
// tinting the coverage with palette color colorIndex.
//
// Each covered pixel is composited source-over onto the palette color
// already stored in target, which is always treated as opaque:
//
//	α      = coverage / 255
//	result = text·α + dst·(1 − α)
//
// and the result is quantized back to the nearest palette index with
// ClosestColor. Pixels falling outside target are skipped.
//
// If colorIndex is not a palette index the call does nothing. Target
// pixels holding an index outside the palette are left as they are.
// ImprintText allocates nothing; its only effect is on target.
func ImprintText(p *Palette, bitmap *Bitmap, colorIndex uint8, x, y int, target *IndexedImage) {
	if int(colorIndex) >= p.Len() {
		Logger().Warn("pixeltext: text color outside palette",
			"index", colorIndex, "paletteLen", p.Len())
		return
	}
	if bitmap.Empty() || target == nil {
		return
	}

	// Visible bitmap window after clipping against the target.
	col0, col1 := max(0, -x), min(bitmap.width, target.Width-x)
	row0, row1 := max(0, -y), min(bitmap.height, target.Height-y)

	text := p.colors[colorIndex]
	for row := row0; row < row1; row++ {
		src := bitmap.pix[row*bitmap.width : (row+1)*bitmap.width]
		dst := target.Pix[(y+row)*target.Stride:]
		for col := col0; col < col1; col++ {
			tx := x + col
			di := int(dst[tx])
			if di >= p.Len() {
				continue
			}
			dst[tx] = p.ClosestColor(blendOver(text, p.colors[di], float64(src[col])/255))
		}
	}
}

// blendOver composites text with coverage alpha over an opaque backdrop
// using premultiplied source-over. The backdrop's alpha stays 1.
func blendOver(text, backdrop RGB, alpha float64) RGB {
	return RGB{
		R: text.R*alpha + backdrop.R*(1-alpha),
		G: text.G*alpha + backdrop.G*(1-alpha),
		B: text.B*alpha + backdrop.B*(1-alpha),
	}
}
