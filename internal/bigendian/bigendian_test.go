package bigendian

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestBufferWriter(t *testing.T) {
	w := NewBufferWriter(4)
	w.WriteUint32(0x0000000D)
	w.WriteString("IHDR")
	w.WriteByte(7)
	w.WriteBytes([]byte{1, 2})

	want := []byte{0, 0, 0, 13, 'I', 'H', 'D', 'R', 7, 1, 2}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Bytes() = %v, want %v", w.Bytes(), want)
	}
	if w.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", w.Len(), len(want))
	}

	w.Reset()
	if w.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", w.Len())
	}
}

func TestStreamReader(t *testing.T) {
	r := NewStreamReader(bytes.NewReader([]byte{0x12, 0x34, 0x56, 0x78, 'a', 'b', 'c'}))

	v, err := r.ReadUint32()
	if err != nil || v != 0x12345678 {
		t.Fatalf("ReadUint32() = %#x, %v", v, err)
	}
	b, err := r.ReadBytes(2)
	if err != nil || string(b) != "ab" {
		t.Fatalf("ReadBytes(2) = %q, %v", b, err)
	}
	if _, err := r.ReadBytes(2); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("short ReadBytes err = %v, want io.ErrUnexpectedEOF", err)
	}
	if _, err := r.ReadUint32(); err != io.EOF {
		t.Errorf("ReadUint32 at end err = %v, want io.EOF", err)
	}
	if _, err := r.ReadBytes(-1); !errors.Is(err, ErrNegativeSize) {
		t.Errorf("ReadBytes(-1) err = %v, want ErrNegativeSize", err)
	}
}

func TestReadBytesLarge(t *testing.T) {
	data := make([]byte, 3*readChunk+5)
	for i := range data {
		data[i] = byte(i)
	}
	r := NewStreamReader(bytes.NewReader(data))
	got, err := r.ReadBytes(len(data))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("ReadBytes returned different data")
	}

	// A huge claimed length on short input fails without allocating it.
	r = NewStreamReader(bytes.NewReader(data[:10]))
	if _, err := r.ReadBytes(0x7fffffff); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("short large ReadBytes err = %v, want io.ErrUnexpectedEOF", err)
	}
	r = NewStreamReader(bytes.NewReader(nil))
	if _, err := r.ReadBytes(readChunk + 1); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("empty large ReadBytes err = %v, want io.ErrUnexpectedEOF", err)
	}
}
