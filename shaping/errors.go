package shaping

import "errors"

// ErrEmptyFontData is returned when Parse is given no bytes.
var ErrEmptyFontData = errors.New("shaping: empty font data")
