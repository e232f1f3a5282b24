// Command pxtextdemo renders text into a PICO-8 palette image.
package main

import (
	"context"
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/pixeltext"
	"github.com/gogpu/pixeltext/shaping"
)

var pico8 = []string{
	"#000000", "#1d2b53", "#7e2553", "#008751",
	"#ab5236", "#5f574f", "#c2c3c7", "#fff1e8",
	"#ff004d", "#ffa300", "#ffec27", "#00e436",
	"#29adff", "#83769c", "#ff77a8", "#ffccaa",
}

func main() {
	var (
		text     = flag.String("text", "Hello, pixels!", "text to render, lines separated by \\n")
		size     = flag.Int("size", 16, "font size in pixels")
		fontPath = flag.String("font", "", "TTF/OTF file (default Go Regular)")
		output   = flag.String("output", "pxtext.png", "output file")
		hinting  = flag.Bool("hinting", false, "enable full hinting")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		pixeltext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	data := goregular.TTF
	if *fontPath != "" {
		b, err := os.ReadFile(*fontPath)
		if err != nil {
			log.Fatalf("Failed to read font: %v", err)
		}
		data = b
	}

	var opts []pixeltext.Option
	if *hinting {
		opts = append(opts, pixeltext.WithHinting(shaping.HintingFull))
	}
	r, err := pixeltext.NewRasterizer(data, 0, opts...)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}

	pal, err := pixeltext.ParseHexPalette(pico8, pixeltext.WithQuantizeCache(4096))
	if err != nil {
		log.Fatalf("Failed to build palette: %v", err)
	}

	lines := strings.Split(strings.ReplaceAll(*text, `\n`, "\n"), "\n")
	if err := r.Preload(context.Background(), strings.Join(lines, ""), *size); err != nil {
		log.Fatalf("Failed to preload glyphs: %v", err)
	}

	// NewRasterizer always builds a shaping.Engine.
	engine := r.Shaper().(*shaping.Engine)
	for _, ch := range strings.Join(lines, "") {
		if ch != ' ' && !engine.Font().HasGlyph(ch) {
			log.Printf("Warning: %s has no glyph for %q", engine.Font().Name(), ch)
		}
	}
	lineHeight := engine.LineHeight(*size)

	bitmaps := make([]*pixeltext.Bitmap, len(lines))
	width := 0
	for i, line := range lines {
		bitmaps[i] = r.RasterizeText(line, *size)
		width = max(width, bitmaps[i].Width())
	}

	const margin = 4
	frame := pixeltext.NewIndexedImage(width+2*margin, lineHeight*len(lines)+2*margin)
	frame.Fill(1) // dark blue

	y := margin
	for i, b := range bitmaps {
		// Drop shadow, then the text in a rotating palette color.
		pixeltext.ImprintText(pal, b, 0, margin+1, y+1, frame)
		pixeltext.ImprintText(pal, b, uint8(7+i%9), margin, y, frame) //nolint:gosec // 7..15
		y += lineHeight
	}

	if err := savePNG(*output, frame.Paletted(pal)); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	stats := r.CacheStats()
	log.Printf("Demo saved to %s (%dx%d), %d glyphs cached (%d bytes)\n",
		*output, frame.Width, frame.Height, stats.Len, stats.Weight)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
