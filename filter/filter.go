// Package filter implements the PNG scanline filtering stage.
//
// Before an indexed bitmap is handed to the zlib compressor, every row is
// replaced by the residuals of one of five reversible byte predictors and
// prefixed with a tag byte naming the predictor. A Selector chooses the
// predictor per row; Encode drives the whole image and Decode reverses it.
//
// Basic usage:
//
//	g := filter.Geometry{Width: w, Height: h, BitDepth: 8, Channels: 1}
//	stream, err := filter.Encode(pix, g, nil)
//	if err != nil {
//		return err
//	}
//	payload, err := compressor.Compress(stream)
package filter

import (
	"errors"

	"github.com/mrjoshuak/go-kompres/internal/predictor"
)

// Filtering errors
var (
	ErrInvalidGeometry = errors.New("filter: invalid image geometry")
	ErrShortBuffer     = errors.New("filter: buffer too short")
	ErrStreamLength    = errors.New("filter: filtered stream has wrong length")
	ErrInvalidType     = errors.New("filter: invalid filter type")
)

// Type is a PNG filter type. Its value is the tag byte stored in front of
// every filtered row.
type Type = predictor.Kind

// Filter types, in tie-breaking order.
const (
	None    Type = predictor.None
	Sub     Type = predictor.Sub
	Up      Type = predictor.Up
	Average Type = predictor.Average
	Paeth   Type = predictor.Paeth
)

// NumTypes is the number of filter types.
const NumTypes = predictor.NumKinds

// Types lists every filter type in tag order.
var Types = [NumTypes]Type{None, Sub, Up, Average, Paeth}
