package pixeltext

import "errors"

// Sentinel errors for pixeltext.
var (
	// ErrFontLoad is returned when font bytes cannot be loaded.
	// The underlying parser error is wrapped alongside it.
	ErrFontLoad = errors.New("pixeltext: font load failed")

	// ErrEmptyPalette is returned when a palette has no colors.
	ErrEmptyPalette = errors.New("pixeltext: palette is empty")

	// ErrPaletteTooLarge is returned when a palette has more colors than
	// a byte-sized index can address.
	ErrPaletteTooLarge = errors.New("pixeltext: palette has more than 256 colors")
)
