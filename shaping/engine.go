package shaping

import (
	"sync"

	gtshaping "github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Engine rasterizes and lays out text for one Font.
//
// Engine is safe for concurrent use. The x/image font.Face used for
// rasterization is not, so every call builds its own face; the HarfBuzz
// shapers used by Layout keep internal buffers and are pooled.
type Engine struct {
	font *Font
	cfg  config

	// shaperPool pools HarfbuzzShaper instances for concurrent use.
	shaperPool sync.Pool
}

// New creates an Engine for f.
func New(f *Font, opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{
		font: f,
		cfg:  cfg,
		shaperPool: sync.Pool{
			New: func() any {
				return &gtshaping.HarfbuzzShaper{}
			},
		},
	}
}

// Font returns the font this engine was created for.
func (e *Engine) Font() *Font {
	return e.font
}

// Hinting returns the hinting mode of the engine.
func (e *Engine) Hinting() Hinting {
	return e.cfg.hinting
}

// newFace creates an x/image face at size pixels per em.
// At 72 DPI one point is one pixel.
func (e *Engine) newFace(size int) (xfont.Face, error) {
	return opentype.NewFace(e.font.sfnt, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: e.cfg.hinting.xfont(),
	})
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
