// Package compression provides the zlib stage that turns a filtered PNG
// scanline stream into IDAT payload, plus deflate size estimation.
//
// The image pipeline never talks to a compressor directly; it is handed a
// Compressor, so any zlib-compatible encoder can be injected.
package compression

// Compressor turns a filtered scanline stream into a zlib stream.
// Implementations must be safe for concurrent use.
type Compressor interface {
	Compress(src []byte) ([]byte, error)
}

// CompressorFunc adapts an ordinary function to the Compressor interface.
type CompressorFunc func(src []byte) ([]byte, error)

// Compress calls f(src).
func (f CompressorFunc) Compress(src []byte) ([]byte, error) {
	return f(src)
}
