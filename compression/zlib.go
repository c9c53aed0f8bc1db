package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// zlib errors
var (
	ErrZlibCorrupted = errors.New("compression: corrupted zlib data")
	ErrInvalidLevel  = errors.New("compression: invalid compression level")
)

// Level represents a zlib compression level.
// Valid values are -2 to 9, where:
//   - -2: Huffman-only compression (klauspost extension)
//   - -1: Default compression (level 6)
//   - 0: No compression (store)
//   - 1: Best speed
//   - 9: Best compression
type Level int

// Standard compression levels
const (
	LevelHuffmanOnly Level = zlib.HuffmanOnly
	LevelDefault     Level = zlib.DefaultCompression
	LevelNone        Level = zlib.NoCompression
	LevelBestSpeed   Level = zlib.BestSpeed
	LevelBestSize    Level = zlib.BestCompression
)

// Valid reports whether l is a level accepted by the zlib writer.
func (l Level) Valid() bool {
	return l >= LevelHuffmanOnly && l <= LevelBestSize
}

// FLevel represents the compression level category from the zlib header.
// This is a 2-bit field indicating the general category, not the exact level.
type FLevel int

const (
	FLevelFastest FLevel = 0 // levels -2, 0, 1
	FLevelFast    FLevel = 1 // levels 2 to 5
	FLevelDefault FLevel = 2 // levels 6, -1
	FLevelBest    FLevel = 3 // levels 7 to 9
)

func (f FLevel) String() string {
	switch f {
	case FLevelFastest:
		return "fastest"
	case FLevelFast:
		return "fast"
	case FLevelDefault:
		return "default"
	case FLevelBest:
		return "best"
	}
	return fmt.Sprintf("FLevel(%d)", int(f))
}

// FLevel returns the header category a writer at level l records.
func (l Level) FLevel() FLevel {
	switch {
	case l == LevelDefault || l == 6:
		return FLevelDefault
	case l <= LevelBestSpeed:
		return FLevelFastest
	case l <= 5:
		return FLevelFast
	default:
		return FLevelBest
	}
}

// DetectZlibFLevel extracts the FLEVEL from zlib compressed data.
// Returns the FLevel and true if successful, or 0 and false if the
// data is too short or has an invalid header.
func DetectZlibFLevel(data []byte) (FLevel, bool) {
	if len(data) < 2 {
		return 0, false
	}

	cmf := data[0]
	flg := data[1]

	// Compression method must be 8 (deflate).
	if cmf&0x0f != 8 {
		return 0, false
	}

	h := uint16(cmf)<<8 | uint16(flg)
	if h%31 != 0 {
		return 0, false
	}

	return FLevel((flg >> 6) & 0x03), true
}

// Each pooled item contains both the writer and its destination buffer.
type zlibWriterPoolItem struct {
	writer *zlib.Writer
	buf    *bytes.Buffer
}

// zlibWriterPools holds one pool per level, indexed by level - LevelHuffmanOnly.
var zlibWriterPools [LevelBestSize - LevelHuffmanOnly + 1]sync.Pool

func init() {
	for i := range zlibWriterPools {
		level := int(LevelHuffmanOnly) + i
		zlibWriterPools[i].New = func() any {
			buf := new(bytes.Buffer)
			w, _ := zlib.NewWriterLevel(buf, level)
			return &zlibWriterPoolItem{writer: w, buf: buf}
		}
	}
}

// Zlib compresses with the klauspost zlib encoder at a fixed level.
// The zero value compresses at LevelNone; use NewZlib or DefaultZlib.
type Zlib struct {
	Level Level
}

// NewZlib returns a zlib Compressor at the given level.
func NewZlib(level Level) (*Zlib, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	return &Zlib{Level: level}, nil
}

// DefaultZlib returns a compressor at LevelBestSize, which is what the
// recompressor uses unless told otherwise.
func DefaultZlib() *Zlib {
	return &Zlib{Level: LevelBestSize}
}

// Compress implements Compressor.
func (z *Zlib) Compress(src []byte) ([]byte, error) {
	return ZlibCompress(src, z.Level)
}

// ZlibCompress compresses src into a complete zlib stream at level.
// An empty input still yields a complete stream: an IDAT payload must
// always be a decodable zlib stream, even when empty.
func ZlibCompress(src []byte, level Level) ([]byte, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}

	pool := &zlibWriterPools[level-LevelHuffmanOnly]
	item := pool.Get().(*zlibWriterPoolItem)
	item.buf.Reset()
	item.writer.Reset(item.buf)

	if _, err := item.writer.Write(src); err != nil {
		item.writer.Close()
		pool.Put(item)
		return nil, err
	}

	if err := item.writer.Close(); err != nil {
		pool.Put(item)
		return nil, err
	}

	result := make([]byte, item.buf.Len())
	copy(result, item.buf.Bytes())
	pool.Put(item)

	return result, nil
}

// zlibReaderPoolItem wraps a zlib reader for pooling
type zlibReaderPoolItem struct {
	reader io.ReadCloser
	srcBuf *bytes.Reader
}

var zlibReaderPool = sync.Pool{
	New: func() any {
		return &zlibReaderPoolItem{
			srcBuf: bytes.NewReader(nil),
		}
	},
}

// ZlibDecompress decompresses a zlib stream whose decompressed size is known.
func ZlibDecompress(src []byte, expectedSize int) ([]byte, error) {
	dst := make([]byte, expectedSize)
	if err := ZlibDecompressTo(dst, src); err != nil {
		return nil, err
	}
	return dst, nil
}

// ZlibDecompressTo decompresses src into dst.
// The dst buffer must be exactly the right size for the decompressed data.
func ZlibDecompressTo(dst, src []byte) error {
	if len(src) == 0 {
		return ErrZlibCorrupted
	}

	item := zlibReaderPool.Get().(*zlibReaderPoolItem)
	item.srcBuf.Reset(src)

	var err error
	if item.reader == nil {
		item.reader, err = zlib.NewReader(item.srcBuf)
	} else if resetter, ok := item.reader.(zlib.Resetter); ok {
		err = resetter.Reset(item.srcBuf, nil)
	} else {
		item.reader.Close()
		item.reader, err = zlib.NewReader(item.srcBuf)
	}
	if err != nil {
		item.reader = nil
		zlibReaderPool.Put(item)
		return ErrZlibCorrupted
	}

	n, err := io.ReadFull(item.reader, dst)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		zlibReaderPool.Put(item)
		return ErrZlibCorrupted
	}
	if n != len(dst) {
		zlibReaderPool.Put(item)
		return ErrZlibCorrupted
	}

	// Trailing data means the expected size was wrong.
	var probe [1]byte
	if m, err := item.reader.Read(probe[:]); m != 0 || (err != nil && err != io.EOF) {
		zlibReaderPool.Put(item)
		return ErrZlibCorrupted
	}

	zlibReaderPool.Put(item)
	return nil
}
