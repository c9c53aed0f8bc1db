package filter

import "fmt"

// Rows addresses the scanlines of a raster buffer. Views returned by Row
// and Prev borrow the buffer; nothing is copied.
type Rows struct {
	buf    []byte
	g      Geometry
	stride int
	zero   []byte
}

// NewRows validates g and binds it to buf, which must hold at least
// g.RawLen() bytes.
func NewRows(buf []byte, g Geometry) (*Rows, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if len(buf) < g.RawLen() {
		return nil, fmt.Errorf("%w: raster has %d bytes, need %d", ErrShortBuffer, len(buf), g.RawLen())
	}
	stride := g.Stride()
	return &Rows{
		buf:    buf,
		g:      g,
		stride: stride,
		zero:   make([]byte, stride),
	}, nil
}

// Geometry returns the geometry the rows were created with.
func (r *Rows) Geometry() Geometry {
	return r.g
}

// Len returns the number of rows.
func (r *Rows) Len() int {
	return r.g.Height
}

// Row returns the y-th row. It panics if y is outside [0, Height).
func (r *Rows) Row(y int) []byte {
	if y < 0 || y >= r.g.Height {
		panic(fmt.Sprintf("filter: row index %d out of range [0, %d)", y, r.g.Height))
	}
	off := y * r.stride
	return r.buf[off : off+r.stride : off+r.stride]
}

// Prev returns the row above row y, or an all-zero row when y is 0.
// It panics if y is outside [0, Height).
func (r *Rows) Prev(y int) []byte {
	if y == 0 {
		return r.zero
	}
	if y < 0 || y >= r.g.Height {
		panic(fmt.Sprintf("filter: row index %d out of range [0, %d)", y, r.g.Height))
	}
	return r.Row(y - 1)
}
