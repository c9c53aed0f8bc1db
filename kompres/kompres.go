// Package kompres recompresses raster images into smaller PNG files.
//
// The pipeline quantizes the image to a palette, packs the indices at the
// smallest bit depth the palette allows, applies per-scanline PNG
// filtering, compresses the filtered stream with zlib, and assembles an
// indexed-colour PNG.
//
// Example usage:
//
//	out, res, err := kompres.RecompressFile("photo.png", nil)
//	fmt.Printf("%s: %d -> %d bytes\n", out, res.InputSize, res.OutputSize)
package kompres

import (
	"image"

	"github.com/mrjoshuak/go-kompres/compression"
	"github.com/mrjoshuak/go-kompres/filter"
	"github.com/mrjoshuak/go-kompres/pngfile"
	"github.com/mrjoshuak/go-kompres/quantize"
)

// Options configures the recompression pipeline.
type Options struct {
	// Quantize configures palette reduction. Nil means
	// quantize.DefaultOptions().
	Quantize *quantize.Options

	// Filter configures scanline filtering. Nil means
	// filter.DefaultOptions().
	Filter *filter.Options

	// Level is the zlib level of the IDAT stream.
	Level compression.Level

	// PackBits stores palette indices below 8 bits when the palette is
	// small enough.
	PackBits bool
}

// DefaultOptions returns options for the smallest output: a 256-colour
// dithered palette, heuristic filtering, packed indices and the best zlib
// level.
func DefaultOptions() *Options {
	return &Options{
		Quantize: quantize.DefaultOptions(),
		Filter:   filter.DefaultOptions(),
		Level:    compression.LevelBestSize,
		PackBits: true,
	}
}

// FastOptions trades size for speed: every row uses the Sub filter and
// zlib runs at its fastest level.
func FastOptions() *Options {
	return &Options{
		Quantize: quantize.DefaultOptions(),
		Filter:   &filter.Options{Selector: filter.Fixed(filter.Sub)},
		Level:    compression.LevelBestSpeed,
		PackBits: true,
	}
}

// Result summarizes one recompression.
type Result struct {
	InputSize  int64 // bytes read, 0 when the image did not come from a file
	OutputSize int64 // bytes of the PNG produced
	Colors     int   // palette entries
	BitDepth   int   // bits per palette index
	Alpha      bool  // some palette entry is translucent, so a tRNS chunk was written
	Filters    filter.Stats
}

// Saved returns how many bytes the output saves over the input. It is
// negative when the output is larger.
func (r Result) Saved() int64 {
	return r.InputSize - r.OutputSize
}

// Ratio returns OutputSize / InputSize, or 0 when the input size is unknown.
func (r Result) Ratio() float64 {
	if r.InputSize <= 0 {
		return 0
	}
	return float64(r.OutputSize) / float64(r.InputSize)
}

// Recompress encodes img as an indexed-colour PNG and returns the file
// contents.
func Recompress(img image.Image, opts *Options) ([]byte, Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	ix, err := quantize.Quantize(img, opts.Quantize)
	if err != nil {
		return nil, Result{}, err
	}

	z, err := compression.NewZlib(opts.Level)
	if err != nil {
		return nil, Result{}, err
	}

	data, pr, err := pngfile.Marshal(ix, &pngfile.Options{
		Compressor: z,
		Filter:     opts.Filter,
		PackBits:   opts.PackBits,
	})
	if err != nil {
		return nil, Result{}, err
	}

	return data, Result{
		OutputSize: int64(len(data)),
		Colors:     len(ix.Palette),
		BitDepth:   pr.BitDepth,
		Alpha:      ix.HasAlpha(),
		Filters:    pr.Filters,
	}, nil
}
