package filter

import (
	"fmt"

	"github.com/mrjoshuak/go-kompres/internal/predictor"
)

// Decode reverses Encode: it validates g, checks that stream holds exactly
// g.FilteredLen() bytes and reconstructs the raw raster.
//
// Reconstruction is strictly sequential. Each row needs the fully
// reconstructed row above it, and within a row each byte needs the
// reconstructed byte to its left.
func Decode(stream []byte, g Geometry) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	dst := make([]byte, g.RawLen())
	if err := DecodeTo(dst, stream, g); err != nil {
		return nil, err
	}
	return dst, nil
}

// DecodeTo is like Decode but reconstructs into dst, which must hold at
// least g.RawLen() bytes. On error the contents of dst are unspecified.
func DecodeTo(dst, stream []byte, g Geometry) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if len(stream) != g.FilteredLen() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrStreamLength, len(stream), g.FilteredLen())
	}
	rows, err := NewRows(dst, g)
	if err != nil {
		return err
	}

	stride := g.Stride()
	unit := g.Unit()
	for y := 0; y < rows.Len(); y++ {
		in := stream[y*(1+stride) : (y+1)*(1+stride)]
		t := Type(in[0])
		if !t.Valid() {
			return fmt.Errorf("%w: %d at row %d", ErrInvalidType, in[0], y)
		}

		row := rows.Row(y)
		copy(row, in[1:])
		predictor.Inverse(t, row, rows.Prev(y), unit)
	}
	return nil
}
