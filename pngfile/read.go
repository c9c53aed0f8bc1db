package pngfile

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"image/color"
	"io"

	"github.com/mrjoshuak/go-kompres/compression"
	"github.com/mrjoshuak/go-kompres/filter"
	"github.com/mrjoshuak/go-kompres/internal/bigendian"
	"github.com/mrjoshuak/go-kompres/quantize"
)

// ReadChunks reads a PNG stream up to and including IEND, verifying the
// signature and every chunk checksum.
func ReadChunks(r io.Reader) ([]Chunk, error) {
	sr := bigendian.NewStreamReader(r)

	sig, err := sr.ReadBytes(len(Signature))
	if err != nil || string(sig) != Signature {
		return nil, ErrSignature
	}

	var chunks []Chunk
	for {
		length, err := sr.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("%w: missing IEND", ErrFormat)
		}
		if length > maxChunkLen {
			return nil, ErrChunkTooBig
		}
		typ, err := sr.ReadBytes(4)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated chunk header", ErrFormat)
		}
		data, err := sr.ReadBytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("%w: truncated %s chunk", ErrFormat, typ)
		}
		sum, err := sr.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated %s chunk", ErrFormat, typ)
		}

		crc := crc32.NewIEEE()
		crc.Write(typ)
		crc.Write(data)
		if crc.Sum32() != sum {
			return nil, fmt.Errorf("%w: %s", ErrBadCRC, typ)
		}

		chunks = append(chunks, Chunk{Type: string(typ), Data: data})
		if string(typ) == "IEND" {
			return chunks, nil
		}
	}
}

// Header holds the fields of an IHDR chunk.
type Header struct {
	Width, Height int
	BitDepth      int
	ColorType     int
	Interlace     int
}

func parseHeader(data []byte) (Header, error) {
	if len(data) != ihdrLen {
		return Header{}, fmt.Errorf("%w: IHDR length %d", ErrFormat, len(data))
	}
	h := Header{
		Width:     int(bigendian.ByteOrder.Uint32(data[0:4])),
		Height:    int(bigendian.ByteOrder.Uint32(data[4:8])),
		BitDepth:  int(data[8]),
		ColorType: int(data[9]),
		Interlace: int(data[12]),
	}
	if data[10] != 0 || data[11] != 0 {
		return Header{}, fmt.Errorf("%w: compression %d, filter method %d", ErrUnsupported, data[10], data[11])
	}
	return h, nil
}

// ReadIndexed decodes a non-interlaced palette PNG, such as one written
// by Encode, back into one index byte per pixel. The stream is reassembled
// by the package's own zlib and unfilter stages, which makes it a check
// on everything Encode produced.
func ReadIndexed(r io.Reader) (*quantize.Indexed, error) {
	chunks, err := ReadChunks(r)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 || chunks[0].Type != "IHDR" {
		return nil, fmt.Errorf("%w: IHDR must come first", ErrFormat)
	}
	h, err := parseHeader(chunks[0].Data)
	if err != nil {
		return nil, err
	}
	if h.ColorType != colorTypePalette || h.Interlace != 0 {
		return nil, fmt.Errorf("%w: colour type %d, interlace %d", ErrUnsupported, h.ColorType, h.Interlace)
	}
	switch h.BitDepth {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("%w: palette bit depth %d", ErrUnsupported, h.BitDepth)
	}

	var pal color.Palette
	var trns []byte
	var idat bytes.Buffer
	for _, c := range chunks[1:] {
		switch c.Type {
		case "PLTE":
			if len(c.Data)%3 != 0 || len(c.Data) == 0 || len(c.Data) > 3*256 {
				return nil, fmt.Errorf("%w: PLTE length %d", ErrPalette, len(c.Data))
			}
			pal = make(color.Palette, len(c.Data)/3)
			for i := range pal {
				pal[i] = color.NRGBA{c.Data[3*i], c.Data[3*i+1], c.Data[3*i+2], 0xff}
			}
		case "tRNS":
			trns = c.Data
		case "IDAT":
			idat.Write(c.Data)
		}
	}
	if pal == nil {
		return nil, fmt.Errorf("%w: missing PLTE", ErrPalette)
	}
	if len(trns) > len(pal) {
		return nil, fmt.Errorf("%w: tRNS longer than PLTE", ErrPalette)
	}
	for i, a := range trns {
		c := pal[i].(color.NRGBA)
		c.A = a
		pal[i] = c
	}

	g := filter.Geometry{Width: h.Width, Height: h.Height, BitDepth: h.BitDepth, Channels: 1}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	stream, err := compression.ZlibDecompress(idat.Bytes(), g.FilteredLen())
	if err != nil {
		return nil, err
	}
	raw, err := filter.Decode(stream, g)
	if err != nil {
		return nil, err
	}

	pix := Unpack(raw, h.Width, h.Height, h.BitDepth)
	for i, p := range pix {
		if int(p) >= len(pal) {
			return nil, fmt.Errorf("%w: pixel %d has index %d, palette has %d entries", ErrPalette, i, p, len(pal))
		}
	}
	return &quantize.Indexed{Palette: pal, Pix: pix, Width: h.Width, Height: h.Height}, nil
}
