// Package pixeltext renders text into palette-indexed images.
//
// # Overview
//
// pixeltext is built for retro and pixel-art graphics where every pixel of
// the frame holds an index into a small palette rather than an RGB value.
// It turns characters into 8-bit coverage bitmaps, keeps recently used glyph
// bitmaps in a weight-bounded cache, and blends coverage onto indexed images
// by compositing in RGB and snapping the result back to the nearest palette
// color.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/pixeltext"
//	    "golang.org/x/image/font/gofont/goregular"
//	)
//
//	r, err := pixeltext.NewRasterizer(goregular.TTF, 256<<10)
//	if err != nil {
//	    return err
//	}
//	pal, err := pixeltext.ParseHexPalette([]string{"#000000", "#ffffff"})
//	if err != nil {
//	    return err
//	}
//
//	frame := pixeltext.NewIndexedImage(320, 200)
//	pixeltext.ImprintText(pal, r.RasterizeText("Hello", 16), 1, 8, 8, frame)
//
// # Components
//
//   - [Rasterizer] rasterizes single characters ([Rasterizer.Rasterize]) and
//     whole lines ([Rasterizer.RasterizeText]) at integer pixel sizes.
//     Glyphs are cached by (character, size) with a capacity measured in
//     coverage bytes.
//   - [Palette] is an ordered set of up to 256 colors with nearest-color
//     search ([Palette.ClosestColor]).
//   - [ImprintText] composites a coverage bitmap onto an [IndexedImage].
//
// Font parsing, glyph rendering, and shaping live in the
// [github.com/gogpu/pixeltext/shaping] package; the cache lives in
// [github.com/gogpu/pixeltext/cache].
//
// # Concurrency
//
// Rasterizer and Palette are safe for concurrent use. IndexedImage is not;
// imprints onto the same image must be serialized by the caller.
//
// # Logging
//
// pixeltext is silent by default. See [SetLogger].
package pixeltext
