package shaping

import (
	"github.com/go-text/typesetting/language"
	xfont "golang.org/x/image/font"
)

// Hinting specifies font hinting mode.
type Hinting int

const (
	// HintingNone disables hinting.
	HintingNone Hinting = iota
	// HintingVertical applies vertical hinting only.
	HintingVertical
	// HintingFull applies full hinting.
	HintingFull
)

// String returns the string representation of the hinting.
func (h Hinting) String() string {
	switch h {
	case HintingNone:
		return "None"
	case HintingVertical:
		return "Vertical"
	case HintingFull:
		return "Full"
	default:
		return "Unknown"
	}
}

func (h Hinting) xfont() xfont.Hinting {
	switch h {
	case HintingVertical:
		return xfont.HintingVertical
	case HintingFull:
		return xfont.HintingFull
	default:
		return xfont.HintingNone
	}
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	hinting  Hinting
	language language.Language
}

func defaultConfig() config {
	return config{
		hinting:  HintingNone,
		language: language.NewLanguage("en"),
	}
}

// WithHinting sets the hinting mode used when rasterizing and measuring.
func WithHinting(h Hinting) Option {
	return func(c *config) {
		c.hinting = h
	}
}

// WithLanguage sets the BCP 47 language tag passed to the shaper
// (e.g., "en", "tr", "sr").
func WithLanguage(lang string) Option {
	return func(c *config) {
		if lang != "" {
			c.language = language.NewLanguage(lang)
		}
	}
}
