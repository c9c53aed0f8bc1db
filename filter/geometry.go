package filter

import (
	"fmt"
	"math"
)

// Geometry describes the layout of a raster buffer.
type Geometry struct {
	Width    int // pixels per row
	Height   int // rows
	BitDepth int // bits per channel: 1, 2, 4, 8 or 16
	Channels int // channels per pixel: 1 to 4
}

// Palette returns the geometry of an 8-bit indexed image.
func Palette(width, height int) Geometry {
	return Geometry{Width: width, Height: height, BitDepth: 8, Channels: 1}
}

// BitsPerPixel returns Channels * BitDepth.
func (g Geometry) BitsPerPixel() int {
	return g.Channels * g.BitDepth
}

// Stride returns the number of bytes in one unfiltered row. Rows of
// sub-byte pixels are rounded up to a whole byte.
func (g Geometry) Stride() int {
	return (g.Width*g.BitsPerPixel() + 7) / 8
}

// Unit returns the distance in bytes between a byte and its left
// neighbour for the Sub, Average and Paeth predictors. For depths below
// eight bits the unit is one byte, not one pixel.
func (g Geometry) Unit() int {
	return max(1, g.BitsPerPixel()/8)
}

// RawLen returns the size of the unfiltered raster.
func (g Geometry) RawLen() int {
	return g.Height * g.Stride()
}

// FilteredLen returns the size of the filtered stream: one tag byte plus
// one stride per row.
func (g Geometry) FilteredLen() int {
	return g.Height * (1 + g.Stride())
}

// Validate checks that g describes a non-empty PNG-compatible raster.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGeometry, g.Width, g.Height)
	}
	if g.Channels < 1 || g.Channels > 4 {
		return fmt.Errorf("%w: %d channels", ErrInvalidGeometry, g.Channels)
	}
	switch g.BitDepth {
	case 1, 2, 4, 8, 16:
	default:
		return fmt.Errorf("%w: bit depth %d", ErrInvalidGeometry, g.BitDepth)
	}

	// Keep Width * BitsPerPixel and Height * (1 + Stride) within int.
	maxWidth := (math.MaxInt - 8) / g.BitsPerPixel()
	if g.Width > maxWidth {
		return fmt.Errorf("%w: width %d too large", ErrInvalidGeometry, g.Width)
	}
	if g.Height > math.MaxInt/(1+g.Stride()) {
		return fmt.Errorf("%w: height %d too large", ErrInvalidGeometry, g.Height)
	}
	return nil
}
