package shaping

import (
	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	gtshaping "github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Placement is the position of one glyph's coverage bitmap within a
// laid-out line.
type Placement struct {
	// Char is the character whose bitmap is drawn here. For a cluster
	// that shaped into a ligature it is the cluster's first character.
	Char rune

	// X, Y is the bitmap's top-left corner. X grows to the right from the
	// line start; Y grows downward from the top of the line box.
	X, Y float64

	// Width and Height match MetricsAndCoverage(Char, size) exactly.
	Width, Height int
}

// Layout shapes text as a single left-to-right line at size pixels per em.
//
// Text is normalized to NFC first so precomposed characters map to one
// glyph. Pen advances, kerning and mark offsets come from the HarfBuzz
// shaper; the bitmap extents come from the same rasterizer used by
// MetricsAndCoverage. Returns nil for empty text or a non-positive size.
func (e *Engine) Layout(text string, size int) []Placement {
	if text == "" || size <= 0 {
		return nil
	}

	runes := []rune(norm.NFC.String(text))

	face, err := e.newFace(size)
	if err != nil {
		return nil
	}
	defer func() {
		_ = face.Close()
	}()

	// font.Face is NOT safe for concurrent use; font.NewFace is cheap.
	input := gtshaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gtfont.NewFace(e.font.gt),
		Size:      fixed.I(size),
		Script:    detectScript(runes),
		Language:  e.cfg.language,
	}

	hb := e.shaperPool.Get().(*gtshaping.HarfbuzzShaper)
	output := hb.Shape(input)
	e.shaperPool.Put(hb)

	ascent := face.Metrics().Ascent.Ceil()

	var buf sfnt.Buffer
	var pen fixed.Int26_6
	placements := make([]Placement, 0, len(output.Glyphs))
	for _, g := range output.Glyphs {
		ch := runes[clampIndex(g.ClusterIndex, len(runes))]
		m, _ := e.render(face, &buf, ch, false)

		placements = append(placements, Placement{
			Char: ch,
			X:    fixedToFloat(pen+g.XOffset) + float64(m.XMin),
			// HarfBuzz offsets grow upward.
			Y:      float64(ascent+m.YMin) - fixedToFloat(g.YOffset),
			Width:  m.Width,
			Height: m.Height,
		})

		pen += g.Advance
	}

	return placements
}

// LineHeight returns the ascent plus descent of the font at size, rounded
// up to whole pixels.
func (e *Engine) LineHeight(size int) int {
	if size <= 0 {
		return 0
	}
	face, err := e.newFace(size)
	if err != nil {
		return 0
	}
	defer func() {
		_ = face.Close()
	}()
	m := face.Metrics()
	return m.Ascent.Ceil() + m.Descent.Ceil()
}

// detectScript returns the script of the first non-space character.
// Mixed-script text should be split into runs by the caller.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
