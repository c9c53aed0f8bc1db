// Package quantize reduces a true-colour image to an indexed one: an
// ordered palette of at most 256 colours and one palette index per pixel.
//
// The palette is chosen by median cut (github.com/ericpauley/go-quantize)
// and pixels are mapped onto it with optional Floyd-Steinberg error
// diffusion.
package quantize

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
	xdraw "golang.org/x/image/draw"
)

// Quantization errors
var (
	ErrEmptyImage = errors.New("quantize: image has no pixels")
	ErrMaxColors  = errors.New("quantize: palette size must be between 2 and 256")
)

// Options configures Quantize.
type Options struct {
	// MaxColors is the largest palette to produce, 2 to 256.
	MaxColors int

	// Dither enables Floyd-Steinberg error diffusion when mapping pixels.
	Dither bool
}

// DefaultOptions returns a full 256-colour palette with dithering.
func DefaultOptions() *Options {
	return &Options{MaxColors: 256, Dither: true}
}

// Indexed is a paletted bitmap with one index byte per pixel, row-major,
// no padding between rows.
type Indexed struct {
	Palette color.Palette
	Pix     []byte
	Width   int
	Height  int
}

// At returns the palette index of pixel (x, y).
func (ix *Indexed) At(x, y int) uint8 {
	return ix.Pix[y*ix.Width+x]
}

// HasAlpha reports whether any palette entry is not fully opaque.
func (ix *Indexed) HasAlpha() bool {
	for _, c := range ix.Palette {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return true
		}
	}
	return false
}

// Quantize maps img onto a palette of at most opts.MaxColors colours.
// Images that already carry a small enough palette keep it unchanged.
func Quantize(img image.Image, opts *Options) (*Indexed, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.MaxColors < 2 || opts.MaxColors > 256 {
		return nil, fmt.Errorf("%w: got %d", ErrMaxColors, opts.MaxColors)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	if p, ok := img.(*image.Paletted); ok && len(p.Palette) <= opts.MaxColors {
		return fromPaletted(p), nil
	}

	q := quantize.MedianCutQuantizer{
		Aggregation:    quantize.Mean,
		AddTransparent: hasTransparency(img),
	}
	pal := q.Quantize(make(color.Palette, 0, opts.MaxColors), img)
	if len(pal) == 0 {
		pal = color.Palette{color.RGBA{0, 0, 0, 0xff}}
	}
	if len(pal) > opts.MaxColors {
		pal = pal[:opts.MaxColors]
	}

	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), pal)
	if opts.Dither {
		xdraw.FloydSteinberg.Draw(dst, dst.Rect, img, b.Min)
	} else {
		xdraw.Draw(dst, dst.Rect, img, b.Min, xdraw.Src)
	}

	return &Indexed{
		Palette: pal,
		Pix:     dst.Pix,
		Width:   b.Dx(),
		Height:  b.Dy(),
	}, nil
}

// fromPaletted copies the indices of p into a packed buffer.
func fromPaletted(p *image.Paletted) *Indexed {
	b := p.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		off := p.PixOffset(b.Min.X, b.Min.Y+y)
		copy(pix[y*w:(y+1)*w], p.Pix[off:off+w])
	}

	pal := make(color.Palette, len(p.Palette))
	copy(pal, p.Palette)
	if len(pal) == 0 {
		pal = color.Palette{color.RGBA{0, 0, 0, 0xff}}
	}
	return &Indexed{Palette: pal, Pix: pix, Width: w, Height: h}
}

// hasTransparency reports whether any pixel of img is not fully opaque.
func hasTransparency(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}
