package shaping

import (
	"bytes"
	"fmt"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Font is a parsed font file.
//
// The same bytes are parsed twice: once by golang.org/x/image for
// rasterization and once by go-text/typesetting for shaping. Both parsed
// forms are read-only, so a Font is safe for concurrent use and is meant to
// be shared.
type Font struct {
	data []byte
	sfnt *opentype.Font
	gt   *gtfont.Font
	name string
}

// Parse parses TrueType or OpenType font data.
// The data slice is copied internally and can be reused after this call.
func Parse(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	sf, err := opentype.Parse(dataCopy)
	if err != nil {
		return nil, fmt.Errorf("shaping: failed to parse font: %w", err)
	}

	// font.Font is read-only and safe for concurrent use, unlike font.Face.
	gtFace, err := gtfont.ParseTTF(bytes.NewReader(dataCopy))
	if err != nil {
		return nil, fmt.Errorf("shaping: failed to load font for shaping: %w", err)
	}

	return &Font{
		data: dataCopy,
		sfnt: sf,
		gt:   gtFace.Font,
		name: fontName(sf),
	}, nil
}

// Name returns the font family name, or "Unknown Font".
func (f *Font) Name() string {
	return f.name
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return f.sfnt.NumGlyphs()
}

// HasGlyph reports whether the font maps r to a real glyph.
func (f *Font) HasGlyph(r rune) bool {
	var buf sfnt.Buffer
	return f.glyphIndex(&buf, r) != 0
}

// glyphIndex returns the glyph index for r, 0 when the font has none.
func (f *Font) glyphIndex(buf *sfnt.Buffer, r rune) sfnt.GlyphIndex {
	gi, err := f.sfnt.GlyphIndex(buf, r)
	if err != nil {
		return 0
	}
	return gi
}

// fontName extracts the family name, falling back to the full name.
func fontName(f *opentype.Font) string {
	if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(nil, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return "Unknown Font"
}
