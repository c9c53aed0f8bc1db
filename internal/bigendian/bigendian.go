// Package bigendian provides the network byte order readers and writers
// used for PNG chunk framing.
//
// PNG stores every multi-byte integer most significant byte first. The
// BufferWriter grows as needed; the StreamReader reads from an io.Reader
// and reports short input as io.ErrUnexpectedEOF.
package bigendian

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// ErrNegativeSize is returned when a size parameter is negative.
var ErrNegativeSize = errors.New("bigendian: negative size")

// ByteOrder is the byte order used by PNG files.
var ByteOrder = binary.BigEndian

// BufferWriter provides a growing buffer for writing binary data.
type BufferWriter struct {
	buf []byte
}

// NewBufferWriter creates a BufferWriter with an initial capacity.
func NewBufferWriter(capacity int) *BufferWriter {
	return &BufferWriter{buf: make([]byte, 0, capacity)}
}

// Len returns the number of bytes written.
func (w *BufferWriter) Len() int {
	return len(w.buf)
}

// Bytes returns the written data as a byte slice.
// The returned slice is valid until the next write operation.
func (w *BufferWriter) Bytes() []byte {
	return w.buf
}

// Reset clears the buffer.
func (w *BufferWriter) Reset() {
	w.buf = w.buf[:0]
}

// WriteByte writes a single byte. It never fails; the error return
// satisfies io.ByteWriter.
func (w *BufferWriter) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

// WriteBytes writes a byte slice.
func (w *BufferWriter) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteString writes the bytes of s with no terminator.
func (w *BufferWriter) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

// WriteUint32 writes an unsigned 32-bit integer in big-endian order.
func (w *BufferWriter) WriteUint32(v uint32) {
	w.buf = ByteOrder.AppendUint32(w.buf, v)
}

// StreamReader wraps an io.Reader for big-endian binary reading.
type StreamReader struct {
	r   io.Reader
	buf [4]byte
}

// NewStreamReader creates a StreamReader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: r}
}

// ReadUint32 reads an unsigned 32-bit integer in big-endian order.
// It returns io.EOF only if no byte could be read.
func (r *StreamReader) ReadUint32() (uint32, error) {
	if _, err := io.ReadFull(r.r, r.buf[:4]); err != nil {
		return 0, err
	}
	return ByteOrder.Uint32(r.buf[:4]), nil
}

// readChunk is the largest allocation ReadBytes makes before data has
// arrived. Longer reads grow the buffer as bytes come in.
const readChunk = 64 << 10

// ReadBytes reads exactly n bytes into a new slice.
func (r *StreamReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeSize
	}
	if n <= readChunk {
		b := make([]byte, n)
		if err := r.ReadBytesInto(b); err != nil {
			return nil, err
		}
		return b, nil
	}

	var buf bytes.Buffer
	buf.Grow(readChunk)
	if _, err := io.CopyN(&buf, r.r, int64(n)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadBytesInto fills dst.
func (r *StreamReader) ReadBytesInto(dst []byte) error {
	_, err := io.ReadFull(r.r, dst)
	if err == io.EOF && len(dst) > 0 {
		err = io.ErrUnexpectedEOF
	}
	return err
}
