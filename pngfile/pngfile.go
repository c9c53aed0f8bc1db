// Package pngfile assembles indexed-colour PNG files around a filtered,
// zlib-compressed scanline stream, and reads them back.
//
// A file written by Encode has the layout
//
//	signature IHDR PLTE [tRNS] IDAT... IEND
//
// with colour type 3 (palette), no interlacing, and a bit depth of 1, 2, 4
// or 8 bits per index.
package pngfile

import (
	"errors"
	"hash/crc32"
	"image/color"

	"github.com/mrjoshuak/go-kompres/internal/bigendian"
)

// Signature is the eight-byte PNG file signature.
const Signature = "\x89PNG\r\n\x1a\n"

// PNG container errors
var (
	ErrSignature   = errors.New("pngfile: not a PNG file")
	ErrBadCRC      = errors.New("pngfile: chunk checksum mismatch")
	ErrChunkTooBig = errors.New("pngfile: chunk too large")
	ErrFormat      = errors.New("pngfile: malformed file")
	ErrUnsupported = errors.New("pngfile: unsupported PNG variant")
	ErrPalette     = errors.New("pngfile: invalid palette")
)

// Colour type and header constants from the PNG IHDR chunk.
const (
	colorTypePalette = 3
	ihdrLen          = 13

	maxChunkLen = 0x7fffffff

	// idatChunkSize is the largest IDAT payload Encode writes per chunk.
	idatChunkSize = 1 << 18
)

// Chunk is one PNG chunk with its checksum already verified.
type Chunk struct {
	Type string
	Data []byte
}

// appendChunk writes length, type, data and CRC-32 of type+data.
func appendChunk(w *bigendian.BufferWriter, typ string, data []byte) {
	w.WriteUint32(uint32(len(data)))
	w.WriteString(typ)
	w.WriteBytes(data)

	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	w.WriteUint32(crc.Sum32())
}

// BitDepthFor returns the smallest PNG palette bit depth that can index n
// colours.
func BitDepthFor(n int) int {
	switch {
	case n <= 2:
		return 1
	case n <= 4:
		return 2
	case n <= 16:
		return 4
	default:
		return 8
	}
}

// paletteChunks returns the PLTE payload and, if any entry is translucent,
// the tRNS payload trimmed of trailing opaque entries.
func paletteChunks(pal color.Palette) (plte, trns []byte) {
	plte = make([]byte, 0, 3*len(pal))
	alpha := make([]byte, len(pal))
	last := -1
	for i, c := range pal {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		plte = append(plte, n.R, n.G, n.B)
		alpha[i] = n.A
		if n.A != 0xff {
			last = i
		}
	}
	if last >= 0 {
		trns = alpha[:last+1]
	}
	return plte, trns
}
