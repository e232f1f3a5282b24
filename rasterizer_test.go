package pixeltext

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/pixeltext/shaping"
)

// testRasterizer creates a Rasterizer over Go Regular.
func testRasterizer(t testing.TB, capacity int64, opts ...Option) *Rasterizer {
	t.Helper()
	r, err := NewRasterizer(goregular.TTF, capacity, opts...)
	require.NoError(t, err)
	return r
}

// fakeShaper renders every character as a w×h block filled with the low
// byte of the rune and counts rasterizations.
type fakeShaper struct {
	w, h       int
	placements []shaping.Placement
	calls      atomic.Int64
	gate       chan struct{}
}

func (f *fakeShaper) MetricsAndCoverage(ch rune, _ int) (shaping.Metrics, []uint8) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	pix := make([]uint8, f.w*f.h)
	for i := range pix {
		pix[i] = uint8(ch)
	}
	return shaping.Metrics{Width: f.w, Height: f.h, Advance: float64(f.w)}, pix
}

func (f *fakeShaper) Layout(string, int) []shaping.Placement {
	return f.placements
}

func TestNewRasterizer(t *testing.T) {
	r := testRasterizer(t, 0)
	stats := r.CacheStats()
	assert.Equal(t, int64(DefaultCacheCapacity), stats.Capacity)
	assert.Zero(t, stats.Len)
	assert.NotNil(t, r.Shaper())
}

func TestNewRasterizerErrors(t *testing.T) {
	_, err := NewRasterizer(nil, 0)
	require.ErrorIs(t, err, ErrFontLoad)
	assert.ErrorIs(t, err, shaping.ErrEmptyFontData)

	_, err = NewRasterizer([]byte("not a font at all"), 0)
	assert.ErrorIs(t, err, ErrFontLoad)
}

func TestRasterize(t *testing.T) {
	r := testRasterizer(t, 0)

	b := r.Rasterize('H', 32)
	require.False(t, b.Empty())
	assert.Equal(t, b.Width()*b.Height(), b.Len())

	var peak uint8
	for _, v := range b.Pix() {
		peak = max(peak, v)
	}
	assert.GreaterOrEqual(t, peak, uint8(250), "stems of H should be fully covered")
}

func TestRasterizeMatchesUncached(t *testing.T) {
	r := testRasterizer(t, 0)
	for _, ch := range "Ag@é" {
		for _, size := range []int{8, 13, 24} {
			cached := r.Rasterize(ch, size)
			fresh := r.RasterizeWithoutCache(ch, size)
			assert.True(t, cached.Equal(fresh), "%q at %d", ch, size)
		}
	}
}

func TestRasterizeCacheHit(t *testing.T) {
	r := testRasterizer(t, 0)

	first := r.Rasterize('g', 20)
	second := r.Rasterize('g', 20)
	assert.Same(t, first, second)

	stats := r.CacheStats()
	assert.Equal(t, 1, stats.Len)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, int64(first.Len()), stats.Weight)
}

func TestRasterizeEmpty(t *testing.T) {
	r := testRasterizer(t, 0)
	tests := []struct {
		name string
		ch   rune
		size int
	}{
		{"zero size", 'A', 0},
		{"negative size", 'A', -12},
		{"missing glyph", '\U0001F600', 16},
		{"space", ' ', 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := r.Rasterize(tt.ch, tt.size)
			assert.True(t, b.Empty())
			assert.Zero(t, b.Width())
			assert.Zero(t, b.Height())
		})
	}
}

func TestRasterizeSizesAreDistinct(t *testing.T) {
	r := testRasterizer(t, 0)
	small := r.Rasterize('M', 10)
	large := r.Rasterize('M', 40)
	assert.Greater(t, large.Width(), small.Width())
	assert.Greater(t, large.Height(), small.Height())
	assert.Equal(t, 2, r.CacheStats().Len)
}

func TestRasterizeCapacityBound(t *testing.T) {
	const capacity = 2000
	r := testRasterizer(t, capacity)

	for _, ch := range "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ" {
		r.Rasterize(ch, 24)
		assert.LessOrEqual(t, r.CacheStats().Weight, int64(capacity))
	}
	assert.Positive(t, r.CacheStats().Evictions)
}

func TestRasterizeOversizedGlyph(t *testing.T) {
	f := &fakeShaper{w: 100, h: 100}
	r := NewRasterizerWithShaper(f, 50)

	b := r.Rasterize('x', 12)
	assert.Equal(t, 100, b.Width())
	assert.Equal(t, 100, b.Height())

	stats := r.CacheStats()
	assert.Zero(t, stats.Len)
	assert.Equal(t, uint64(1), stats.Rejections)

	r.Rasterize('x', 12)
	assert.Equal(t, int64(2), f.calls.Load(), "rejected glyphs are recomputed")
}

func TestRasterizeCachesLargeGlyph(t *testing.T) {
	// 300×300 is far above a sixteenth of the default capacity.
	f := &fakeShaper{w: 300, h: 300}
	r := NewRasterizerWithShaper(f, 0)

	first := r.Rasterize('A', 300)
	second := r.Rasterize('A', 300)
	assert.Same(t, first, second)
	assert.Equal(t, int64(1), f.calls.Load())

	stats := r.CacheStats()
	assert.Equal(t, 1, stats.Len)
	assert.Equal(t, int64(300*300), stats.Weight)
	assert.Zero(t, stats.Rejections)
}

func TestRasterizeEvictsOnlyWhenFull(t *testing.T) {
	const capacity = 100000
	f := &fakeShaper{w: 150, h: 100}
	r := NewRasterizerWithShaper(f, capacity)
	glyph := int64(f.w * f.h)

	for ch := 'a'; ch <= 'z'; ch++ {
		before := r.CacheStats()
		r.Rasterize(ch, 12)
		after := r.CacheStats()

		if before.Weight+glyph <= capacity {
			require.Equal(t, before.Evictions, after.Evictions,
				"%q evicted while %d + %d fits %d", ch, before.Weight, glyph, capacity)
		} else {
			require.Greater(t, after.Evictions, before.Evictions, "%q overflowed without evicting", ch)
		}
		require.LessOrEqual(t, after.Weight, int64(capacity))
	}
	assert.Equal(t, capacity/(f.w*f.h), r.CacheStats().Len)
}

func TestRasterizeCountsOneMissPerMiss(t *testing.T) {
	for _, flight := range []bool{true, false} {
		f := &fakeShaper{w: 2, h: 2}
		r := NewRasterizerWithShaper(f, 0, WithSingleflight(flight))

		r.Rasterize('m', 10)
		r.Rasterize('m', 10)

		stats := r.CacheStats()
		assert.Equal(t, uint64(1), stats.Misses, "singleflight=%v", flight)
		assert.Equal(t, uint64(1), stats.Hits, "singleflight=%v", flight)
		assert.InDelta(t, 0.5, stats.HitRate, 1e-9, "singleflight=%v", flight)
	}
}

func TestResetCacheStats(t *testing.T) {
	f := &fakeShaper{w: 2, h: 2}
	r := NewRasterizerWithShaper(f, 0)

	r.Rasterize('r', 10)
	r.Rasterize('r', 10)
	r.ResetCacheStats()

	stats := r.CacheStats()
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
	assert.Equal(t, 1, stats.Len, "glyphs survive a stats reset")
}

func TestRasterizeComputesOnce(t *testing.T) {
	f := &fakeShaper{w: 3, h: 4, gate: make(chan struct{})}
	r := NewRasterizerWithShaper(f, 0)

	const goroutines = 32
	results := make([]*Bitmap, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.Rasterize('q', 9)
		}()
	}
	close(f.gate)
	wg.Wait()

	assert.Equal(t, int64(1), f.calls.Load())
	for _, b := range results {
		assert.Same(t, results[0], b)
	}
}

func TestRasterizeWithoutSingleflight(t *testing.T) {
	f := &fakeShaper{w: 2, h: 2}
	r := NewRasterizerWithShaper(f, 0, WithSingleflight(false))

	a := r.Rasterize('z', 5)
	b := r.Rasterize('z', 5)
	assert.Same(t, a, b)
	assert.Equal(t, int64(1), f.calls.Load())
}

func TestRasterizeConcurrent(t *testing.T) {
	r := testRasterizer(t, 4096)
	want := make(map[rune]*Bitmap)
	for _, ch := range "pixel" {
		want[ch] = r.RasterizeWithoutCache(ch, 16)
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				for _, ch := range "pixel" {
					if !r.Rasterize(ch, 16).Equal(want[ch]) {
						t.Errorf("bitmap mismatch for %q", ch)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, r.CacheStats().Weight, int64(4096))
}

func TestPreload(t *testing.T) {
	f := &fakeShaper{w: 2, h: 2}
	r := NewRasterizerWithShaper(f, 0)

	require.NoError(t, r.Preload(context.Background(), "abca", 12, 16))
	assert.Equal(t, 6, r.CacheStats().Len)
	assert.Equal(t, int64(6), f.calls.Load())

	r.Rasterize('b', 16)
	assert.Equal(t, int64(6), f.calls.Load(), "preloaded glyphs come from the cache")
}

func TestPreloadCanceled(t *testing.T) {
	f := &fakeShaper{w: 2, h: 2}
	r := NewRasterizerWithShaper(f, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Preload(ctx, "abcdef", 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClearCache(t *testing.T) {
	f := &fakeShaper{w: 2, h: 2}
	r := NewRasterizerWithShaper(f, 0)

	r.Rasterize('a', 8)
	r.ClearCache()
	assert.Zero(t, r.CacheStats().Len)

	r.Rasterize('a', 8)
	assert.Equal(t, int64(2), f.calls.Load())
}

func BenchmarkRasterizeCached(b *testing.B) {
	r := testRasterizer(b, 0)
	r.Rasterize('W', 24)
	b.ReportAllocs()
	for b.Loop() {
		_ = r.Rasterize('W', 24)
	}
}

func BenchmarkRasterizeUncached(b *testing.B) {
	r := testRasterizer(b, 0)
	b.ReportAllocs()
	for b.Loop() {
		_ = r.RasterizeWithoutCache('W', 24)
	}
}
