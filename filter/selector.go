package filter

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mrjoshuak/go-kompres/compression"
	"github.com/mrjoshuak/go-kompres/internal/predictor"
)

// A Selector chooses the filter type for one row, given the raw row, the
// raw row above (all zero for the first row) and the byte unit of the
// left neighbour. Selectors must be safe for concurrent use; the encoder
// calls Select from several goroutines at once.
type Selector interface {
	Select(cur, prev []byte, unit int) Type
}

// heuristic picks the filter with the smallest sum of |residual|,
// residuals read as signed bytes.
type heuristic struct{}

// Heuristic returns the default selector. For each filter type it sums
// min(r, 256-r) over the row's residuals r and picks the smallest sum.
// Ties go to the lower tag.
func Heuristic() Selector {
	return heuristic{}
}

func (heuristic) Select(cur, prev []byte, unit int) Type {
	best := None
	bestCost := predictor.Cost(None, cur, prev, unit)
	for _, t := range Types[1:] {
		if bestCost == 0 {
			break
		}
		if c := predictor.Cost(t, cur, prev, unit); c < bestCost {
			best, bestCost = t, c
		}
	}
	return best
}

func (heuristic) String() string { return "heuristic" }

type fixed Type

// Fixed returns a selector that always chooses t. It panics if t is not a
// defined filter type.
func Fixed(t Type) Selector {
	if !t.Valid() {
		panic(fmt.Sprintf("filter: Fixed(%v)", t))
	}
	return fixed(t)
}

func (f fixed) Select(_, _ []byte, _ int) Type {
	return Type(f)
}

func (f fixed) String() string { return Type(f).String() }

// trial filters the row every possible way and deflates each result.
type trial struct {
	level   compression.Level
	scratch sync.Pool
}

// Trial returns a selector that runs each candidate row through raw
// deflate at level and keeps the filter with the smallest output. Ties go
// to the lower tag. It is far slower than Heuristic and occasionally
// better, since deflate rewards repetition that a magnitude sum misses.
func Trial(level compression.Level) (Selector, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %d", compression.ErrInvalidLevel, level)
	}
	return &trial{level: level}, nil
}

func (s *trial) Select(cur, prev []byte, unit int) Type {
	buf, _ := s.scratch.Get().(*[]byte)
	if buf == nil || cap(*buf) < len(cur) {
		b := make([]byte, len(cur))
		buf = &b
	}
	dst := (*buf)[:len(cur)]

	best := None
	bestSize := -1
	for _, t := range Types {
		predictor.Forward(t, dst, cur, prev, unit)
		n, err := compression.DeflateSize(dst, s.level)
		if err != nil {
			// Level was validated; the counting writer cannot fail.
			continue
		}
		if bestSize < 0 || n < bestSize {
			best, bestSize = t, n
		}
	}

	s.scratch.Put(buf)
	return best
}

func (s *trial) String() string { return "trial" }

// SelectorNames lists the names accepted by ParseSelector.
var SelectorNames = []string{"heuristic", "trial", "none", "sub", "up", "average", "paeth"}

// ParseSelector returns the selector for a name from SelectorNames.
// "trial" deflates candidates at level; the other names ignore it.
func ParseSelector(name string, level compression.Level) (Selector, error) {
	switch strings.ToLower(name) {
	case "", "heuristic":
		return Heuristic(), nil
	case "trial":
		return Trial(level)
	}
	for _, t := range Types {
		if strings.EqualFold(name, t.String()) {
			return Fixed(t), nil
		}
	}
	return nil, fmt.Errorf("filter: unknown selector %q (want one of %s)", name, strings.Join(SelectorNames, ", "))
}
