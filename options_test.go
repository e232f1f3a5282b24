package pixeltext

import (
	"testing"

	"github.com/gogpu/pixeltext/shaping"
)

func TestDefaultRasterizerConfig(t *testing.T) {
	cfg := defaultRasterizerConfig()
	if !cfg.singleflight {
		t.Error("singleflight should be enabled by default")
	}
	if len(cfg.shaping) != 0 {
		t.Errorf("default shaping options = %d, want 0", len(cfg.shaping))
	}
}

func TestRasterizerOptions(t *testing.T) {
	cfg := defaultRasterizerConfig()
	for _, opt := range []Option{
		WithHinting(shaping.HintingFull),
		WithLanguage("de"),
		WithSingleflight(false),
	} {
		opt(&cfg)
	}
	if cfg.singleflight {
		t.Error("WithSingleflight(false) did not disable singleflight")
	}
	if len(cfg.shaping) != 2 {
		t.Errorf("shaping options = %d, want 2", len(cfg.shaping))
	}
}

func TestWithHintingReachesEngine(t *testing.T) {
	r := testRasterizer(t, 0, WithHinting(shaping.HintingVertical))
	e, ok := r.Shaper().(*shaping.Engine)
	if !ok {
		t.Fatalf("Shaper() = %T, want *shaping.Engine", r.Shaper())
	}
	if e.Hinting() != shaping.HintingVertical {
		t.Errorf("Hinting() = %v, want %v", e.Hinting(), shaping.HintingVertical)
	}
}

func TestWithQuantizeCache(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		wantMemo bool
	}{
		{"disabled by default", 0, false},
		{"negative disables", -5, false},
		{"enabled", 128, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPalette([]RGB{RGB8(0, 0, 0)}, WithQuantizeCache(tt.n))
			if err != nil {
				t.Fatal(err)
			}
			if got := p.memo != nil; got != tt.wantMemo {
				t.Errorf("memo enabled = %v, want %v", got, tt.wantMemo)
			}
		})
	}
}
