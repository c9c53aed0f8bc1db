package compression

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/flate"
)

// countWriter discards its input and counts the bytes written.
type countWriter struct {
	n int
}

func (c *countWriter) Write(p []byte) (int, error) {
	c.n += len(p)
	return len(p), nil
}

type flateSizer struct {
	w   *flate.Writer
	cnt countWriter
}

var flateSizerPools [LevelBestSize - LevelHuffmanOnly + 1]sync.Pool

func init() {
	for i := range flateSizerPools {
		level := int(LevelHuffmanOnly) + i
		flateSizerPools[i].New = func() any {
			s := &flateSizer{}
			s.w, _ = flate.NewWriter(&s.cnt, level)
			return s
		}
	}
}

// DeflateSize returns the length of the raw deflate encoding of src at
// level, without keeping the output. It is used to rank candidate filter
// choices by what the compressor will actually produce.
func DeflateSize(src []byte, level Level) (int, error) {
	if !level.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}

	pool := &flateSizerPools[level-LevelHuffmanOnly]
	s := pool.Get().(*flateSizer)
	s.cnt.n = 0
	s.w.Reset(&s.cnt)

	if _, err := s.w.Write(src); err != nil {
		pool.Put(s)
		return 0, err
	}
	if err := s.w.Close(); err != nil {
		pool.Put(s)
		return 0, err
	}

	n := s.cnt.n
	pool.Put(s)
	return n, nil
}
