package filter

import (
	"fmt"

	"github.com/mrjoshuak/go-kompres/internal/parallel"
	"github.com/mrjoshuak/go-kompres/internal/predictor"
)

// Options configures Encode.
type Options struct {
	// Selector chooses the filter type per row. Nil means Heuristic().
	Selector Selector

	// Workers is the number of goroutines rows are spread across.
	// 0 means runtime.GOMAXPROCS(0); 1 filters on the calling goroutine.
	Workers int
}

// DefaultOptions returns the options Encode uses when given nil.
func DefaultOptions() *Options {
	return &Options{Selector: Heuristic()}
}

// Stats counts how many rows were filtered with each type.
type Stats [NumTypes]int

// Rows returns the total number of rows counted.
func (s Stats) Rows() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// rowGrain is the minimum number of rows per worker.
const rowGrain = 32

// Encode filters the raster buf described by g and returns the filtered
// stream of exactly g.FilteredLen() bytes. The geometry is validated before
// any row is touched; on error no stream is returned. buf is not modified.
func Encode(buf []byte, g Geometry, opts *Options) ([]byte, error) {
	rows, err := NewRows(buf, g)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, g.FilteredLen())
	encodeRows(dst, rows, opts, nil)
	return dst, nil
}

// EncodeTo is like Encode but writes into dst, which must hold at least
// g.FilteredLen() bytes. It returns the number of bytes written.
func EncodeTo(dst, buf []byte, g Geometry, opts *Options) (int, error) {
	rows, err := NewRows(buf, g)
	if err != nil {
		return 0, err
	}
	n := g.FilteredLen()
	if len(dst) < n {
		return 0, fmt.Errorf("%w: output has %d bytes, need %d", ErrShortBuffer, len(dst), n)
	}
	encodeRows(dst[:n], rows, opts, nil)
	return n, nil
}

// EncodeStats is like Encode and also reports which filter types were used.
func EncodeStats(buf []byte, g Geometry, opts *Options) ([]byte, Stats, error) {
	rows, err := NewRows(buf, g)
	if err != nil {
		return nil, Stats{}, err
	}
	dst := make([]byte, g.FilteredLen())
	tags := make([]Type, g.Height)
	encodeRows(dst, rows, opts, tags)

	var stats Stats
	for _, t := range tags {
		stats[t]++
	}
	return dst, stats, nil
}

// encodeRows filters every row of rows into dst. Forward filtering only
// reads the raw raster, so rows are independent and each worker writes a
// disjoint, row-aligned slice of dst. If tags is non-nil the chosen type
// of row y is stored in tags[y].
func encodeRows(dst []byte, rows *Rows, opts *Options, tags []Type) {
	if opts == nil {
		opts = DefaultOptions()
	}
	sel := opts.Selector
	if sel == nil {
		sel = Heuristic()
	}

	g := rows.Geometry()
	stride := g.Stride()
	unit := g.Unit()
	cfg := parallel.Config{Workers: opts.Workers, Grain: rowGrain}

	parallel.For(cfg, rows.Len(), func(start, end int) {
		for y := start; y < end; y++ {
			cur := rows.Row(y)
			prev := rows.Prev(y)
			t := sel.Select(cur, prev, unit)
			if !t.Valid() {
				panic(fmt.Sprintf("filter: selector returned %v", t))
			}

			out := dst[y*(1+stride) : (y+1)*(1+stride)]
			out[0] = byte(t)
			predictor.Forward(t, out[1:], cur, prev, unit)
			if tags != nil {
				tags[y] = t
			}
		}
	})
}
