package pixeltext

import "github.com/gogpu/pixeltext/shaping"

// DefaultCacheCapacity is the glyph cache budget used when NewRasterizer is
// given a non-positive capacity: 1 MiB of coverage bytes.
const DefaultCacheCapacity = 1 << 20

// Option configures a Rasterizer during creation.
//
// Example:
//
//	r, err := pixeltext.NewRasterizer(ttf, 256<<10,
//	    pixeltext.WithHinting(shaping.HintingFull))
type Option func(*rasterizerConfig)

// rasterizerConfig holds optional configuration for a Rasterizer.
type rasterizerConfig struct {
	shaping      []shaping.Option
	singleflight bool
}

// defaultRasterizerConfig returns the default rasterizer configuration.
func defaultRasterizerConfig() rasterizerConfig {
	return rasterizerConfig{
		singleflight: true,
	}
}

// WithHinting sets the hinting mode of the font engine built by
// NewRasterizer. It has no effect on NewRasterizerWithShaper.
func WithHinting(h shaping.Hinting) Option {
	return func(c *rasterizerConfig) {
		c.shaping = append(c.shaping, shaping.WithHinting(h))
	}
}

// WithLanguage sets the language tag used for shaping by the font engine
// built by NewRasterizer. It has no effect on NewRasterizerWithShaper.
func WithLanguage(lang string) Option {
	return func(c *rasterizerConfig) {
		c.shaping = append(c.shaping, shaping.WithLanguage(lang))
	}
}

// WithSingleflight controls whether concurrent cache misses on the same
// glyph share one rasterization. Enabled by default. When disabled, racing
// callers each rasterize the glyph; the results are identical.
func WithSingleflight(enabled bool) Option {
	return func(c *rasterizerConfig) {
		c.singleflight = enabled
	}
}

// PaletteOption configures a Palette during creation.
type PaletteOption func(*paletteConfig)

type paletteConfig struct {
	memoSize int
}

// WithQuantizeCache memoizes up to n ClosestColor results. Results depend
// only on the 8-bit form of the input color, so memoized answers are
// identical to a fresh search. n <= 0 disables the memo (the default).
func WithQuantizeCache(n int) PaletteOption {
	return func(c *paletteConfig) {
		c.memoSize = n
	}
}
