package pixeltext

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/pixeltext/cache"
)

// RGB is an opaque color with channels in [0, 1].
type RGB struct {
	R, G, B float64
}

// RGB8 creates a color from 8-bit channels.
func RGB8(r, g, b uint8) RGB {
	return RGB{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// FromColor converts a standard color.Color to RGB, dropping alpha.
// Premultiplied channels are un-premultiplied first.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB8(n.R, n.G, n.B)
}

// Color converts the color to a standard opaque color.RGBA.
func (c RGB) Color() color.Color {
	r, g, b := c.bytes()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// bytes converts each channel to 8 bits by scaling by 255 and truncating.
// Channels outside [0, 1] saturate.
func (c RGB) bytes() (r, g, b uint8) {
	return channel8(c.R), channel8(c.G), channel8(c.B)
}

func channel8(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v * 255)
	}
}

// Palette is an immutable, ordered set of up to 256 colors. A color's
// position in the palette is its index, the value stored in indexed images.
//
// Palette is safe for concurrent use.
type Palette struct {
	colors []RGB
	bytes  [][3]uint8
	memo   *cache.ShardedCache[uint32, uint8]
}

// NewPalette creates a palette from an ordered list of colors.
// The slice is copied.
func NewPalette(colors []RGB, opts ...PaletteOption) (*Palette, error) {
	if len(colors) == 0 {
		return nil, ErrEmptyPalette
	}
	if len(colors) > 256 {
		return nil, fmt.Errorf("%w: got %d", ErrPaletteTooLarge, len(colors))
	}

	var cfg paletteConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Palette{
		colors: make([]RGB, len(colors)),
		bytes:  make([][3]uint8, len(colors)),
	}
	copy(p.colors, colors)
	for i, c := range p.colors {
		r, g, b := c.bytes()
		p.bytes[i] = [3]uint8{r, g, b}
	}
	if cfg.memoSize > 0 {
		p.memo = cache.NewSharded[uint32, uint8](int64(cfg.memoSize), func(k uint32) uint64 {
			return uint64(k) * 0x9E3779B97F4A7C15 >> 32
		}, nil)
	}
	return p, nil
}

// NewPaletteFromColors creates a palette from a standard color.Palette.
func NewPaletteFromColors(colors color.Palette, opts ...PaletteOption) (*Palette, error) {
	rgb := make([]RGB, len(colors))
	for i, c := range colors {
		rgb[i] = FromColor(c)
	}
	return NewPalette(rgb, opts...)
}

// ParseHexPalette creates a palette from hex color strings such as
// "#1d2b53". Three-digit shorthand ("#fff") is accepted.
func ParseHexPalette(hex []string, opts ...PaletteOption) (*Palette, error) {
	rgb := make([]RGB, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(expandHex(h))
		if err != nil {
			return nil, fmt.Errorf("pixeltext: palette color %d: %w", i, err)
		}
		// Hex scales by 1/255, which does not truncate back to every byte.
		rgb[i] = RGB8(c.RGB255())
	}
	return NewPalette(rgb, opts...)
}

// expandHex turns "#abc" into "#aabbcc" and adds a missing '#'.
func expandHex(h string) string {
	if h != "" && h[0] != '#' {
		h = "#" + h
	}
	if len(h) == 4 {
		return string([]byte{'#', h[1], h[1], h[2], h[2], h[3], h[3]})
	}
	return h
}

// Len returns the number of colors.
func (p *Palette) Len() int {
	return len(p.colors)
}

// At returns the color at index i. It panics if i is out of range.
func (p *Palette) At(i int) RGB {
	return p.colors[i]
}

// Colors returns a copy of the palette colors.
func (p *Palette) Colors() []RGB {
	out := make([]RGB, len(p.colors))
	copy(out, p.colors)
	return out
}

// ColorPalette converts the palette for use with image.Paletted.
func (p *Palette) ColorPalette() color.Palette {
	out := make(color.Palette, len(p.colors))
	for i, c := range p.colors {
		out[i] = c.Color()
	}
	return out
}

// ClosestColor returns the index of the palette color nearest to c.
//
// Both colors are reduced to 8-bit channels and compared with a
// luma-weighted squared distance
//
//	d = (0.30·Δr)² + (0.59·Δg)² + (0.11·Δb)²
//
// Ties go to the lowest index.
func (p *Palette) ClosestColor(c RGB) uint8 {
	r, g, b := c.bytes()
	if p.memo == nil {
		return p.closest(r, g, b)
	}
	key := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	return p.memo.GetOrCreate(key, func() uint8 {
		return p.closest(r, g, b)
	})
}

// closest performs a linear scan over the palette.
func (p *Palette) closest(r, g, b uint8) uint8 {
	minDist := math.Inf(1)
	minIndex := 0
	for i, pc := range p.bytes {
		if d := colorDistance(r, g, b, pc[0], pc[1], pc[2]); d < minDist {
			minDist = d
			minIndex = i
		}
	}
	return uint8(minIndex) //nolint:gosec // palettes hold at most 256 colors
}

// colorDistance is the luma-weighted squared distance between two colors.
func colorDistance(r1, g1, b1, r2, g2, b2 uint8) float64 {
	dr := (float64(r1) - float64(r2)) * 0.30
	dg := (float64(g1) - float64(g2)) * 0.59
	db := (float64(b1) - float64(b2)) * 0.11
	return dr*dr + dg*dg + db*db
}
