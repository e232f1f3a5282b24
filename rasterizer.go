package pixeltext

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/gogpu/pixeltext/cache"
	"github.com/gogpu/pixeltext/shaping"
)

// Shaper is the font primitive a Rasterizer is built on.
// *shaping.Engine is the standard implementation.
type Shaper interface {
	// MetricsAndCoverage returns the bitmap metrics of ch at size and its
	// row-major coverage, Width*Height bytes long.
	MetricsAndCoverage(ch rune, size int) (shaping.Metrics, []uint8)

	// Layout positions the glyphs of text at size on one left-to-right line.
	Layout(text string, size int) []shaping.Placement
}

// glyphKey identifies a rasterized glyph in the glyph cache.
type glyphKey struct {
	char rune
	size int
}

func hashGlyphKey(k glyphKey) uint64 {
	return cache.IntHasher(int(k.char)<<16 ^ k.size)
}

func weighBitmap(_ glyphKey, b *Bitmap) int64 {
	return int64(b.Len())
}

// Rasterizer turns characters and strings into coverage bitmaps, keeping
// recently used glyphs in a weight-bounded cache.
//
// The cache weight of a glyph is its pixel count, so the capacity is the
// number of coverage bytes the cache may hold. Rasterizer is safe for
// concurrent use.
type Rasterizer struct {
	shaper Shaper
	glyphs *cache.ShardedCache[glyphKey, *Bitmap]
	flight *singleflight.Group
}

// NewRasterizer parses font bytes and returns a cache-backed Rasterizer
// holding at most capacity coverage bytes. A non-positive capacity selects
// DefaultCacheCapacity.
//
// Invalid font data fails with an error wrapping ErrFontLoad.
func NewRasterizer(data []byte, capacity int64, opts ...Option) (*Rasterizer, error) {
	cfg := defaultRasterizerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := shaping.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFontLoad, err)
	}
	Logger().Info("pixeltext: font loaded", "name", f.Name(), "glyphs", f.NumGlyphs())

	return newRasterizer(shaping.New(f, cfg.shaping...), capacity, cfg), nil
}

// NewRasterizerWithShaper returns a Rasterizer over a custom Shaper.
func NewRasterizerWithShaper(s Shaper, capacity int64, opts ...Option) *Rasterizer {
	cfg := defaultRasterizerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newRasterizer(s, capacity, cfg)
}

func newRasterizer(s Shaper, capacity int64, cfg rasterizerConfig) *Rasterizer {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	r := &Rasterizer{
		shaper: s,
		glyphs: cache.NewSharded[glyphKey, *Bitmap](capacity, hashGlyphKey, weighBitmap),
	}
	if cfg.singleflight {
		r.flight = &singleflight.Group{}
	}
	return r
}

// Shaper returns the font primitive behind the rasterizer.
func (r *Rasterizer) Shaper() Shaper {
	return r.shaper
}

// Rasterize returns the coverage bitmap of ch at size pixels.
//
// Cached glyphs are returned without recomputation; the returned bitmap is
// shared and must be treated as read-only. A glyph heavier than the whole
// cache capacity is returned but not cached. Characters without a glyph and
// non-positive sizes give an empty bitmap.
func (r *Rasterizer) Rasterize(ch rune, size int) *Bitmap {
	key := glyphKey{char: ch, size: size}
	if b, ok := r.glyphs.Get(key); ok {
		return b
	}

	if r.flight == nil {
		return r.rasterizeAndStore(key)
	}

	v, _, _ := r.flight.Do(flightKey(key), func() (any, error) {
		// Another caller may have stored the glyph while we waited.
		if b, ok := r.glyphs.Peek(key); ok {
			return b, nil
		}
		return r.rasterizeAndStore(key), nil
	})
	return v.(*Bitmap)
}

// RasterizeWithoutCache computes the coverage bitmap of ch at size without
// reading or writing the cache. Use it for one-off glyphs not worth keeping.
func (r *Rasterizer) RasterizeWithoutCache(ch rune, size int) *Bitmap {
	return r.compute(ch, size)
}

func (r *Rasterizer) rasterizeAndStore(key glyphKey) *Bitmap {
	b := r.compute(key.char, key.size)
	if !r.glyphs.Set(key, b) {
		Logger().Debug("pixeltext: glyph too large to cache",
			"char", string(key.char), "size", key.size, "weight", b.Len(),
			"capacity", r.glyphs.Capacity())
	}
	return b
}

func (r *Rasterizer) compute(ch rune, size int) *Bitmap {
	if size <= 0 {
		return emptyBitmap
	}
	m, pix := r.shaper.MetricsAndCoverage(ch, size)
	return NewBitmap(m.Width, m.Height, pix)
}

func flightKey(k glyphKey) string {
	return strconv.Itoa(int(k.char)) + "/" + strconv.Itoa(k.size)
}

// Preload rasterizes every character of chars at every size into the cache,
// spreading the work over GOMAXPROCS goroutines. It stops early and returns
// the context error when ctx is done.
func (r *Rasterizer) Preload(ctx context.Context, chars string, sizes ...int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	seen := make(map[rune]struct{})
	for _, ch := range chars {
		if _, dup := seen[ch]; dup {
			continue
		}
		seen[ch] = struct{}{}
		for _, size := range sizes {
			if err := ctx.Err(); err != nil {
				_ = g.Wait()
				return err
			}
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				r.Rasterize(ch, size)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	Logger().Debug("pixeltext: preload done", "chars", len(seen), "sizes", len(sizes))
	return nil
}

// CacheStats returns statistics of the glyph cache.
func (r *Rasterizer) CacheStats() cache.Stats {
	return r.glyphs.Stats()
}

// ResetCacheStats zeroes the hit, miss, eviction and rejection counters of
// the glyph cache without dropping any glyph.
func (r *Rasterizer) ResetCacheStats() {
	r.glyphs.ResetStats()
}

// ClearCache drops every cached glyph. Bitmaps already handed out stay valid.
func (r *Rasterizer) ClearCache() {
	r.glyphs.Clear()
}
