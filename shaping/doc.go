// Package shaping turns font bytes into glyph coverage and glyph positions.
//
// It is the font-format boundary of pixeltext: everything that knows about
// TrueType/OpenType lives here, behind two calls.
//
//   - MetricsAndCoverage rasterizes one character at a pixel size with
//     golang.org/x/image/font/opentype and returns its 8-bit coverage.
//   - Layout shapes a string with the HarfBuzz port in
//     github.com/go-text/typesetting and returns one Placement per glyph,
//     measured with the same rasterizer so placement sizes always match
//     the coverage bitmaps.
//
// # Example usage
//
//	f, err := shaping.Parse(ttf)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	e := shaping.New(f)
//	m, pix := e.MetricsAndCoverage('A', 16)
//	for _, p := range e.Layout("Hello", 16) {
//	    fmt.Println(string(p.Char), p.X, p.Y, p.Width, p.Height)
//	}
//
// Coordinates use a y-down system: y = 0 is the top of the line box and the
// baseline sits at the font ascent.
package shaping
