package pngfile

import (
	"fmt"
	"io"
	"math"

	"github.com/mrjoshuak/go-kompres/compression"
	"github.com/mrjoshuak/go-kompres/filter"
	"github.com/mrjoshuak/go-kompres/internal/bigendian"
	"github.com/mrjoshuak/go-kompres/quantize"
)

// Options configures Encode.
type Options struct {
	// Compressor turns the filtered stream into the IDAT payload.
	// Nil means compression.DefaultZlib().
	Compressor compression.Compressor

	// Filter configures the scanline filtering stage. Nil means
	// filter.DefaultOptions().
	Filter *filter.Options

	// PackBits stores indices at the smallest bit depth the palette
	// allows. When false every index takes a full byte.
	PackBits bool
}

// DefaultOptions returns options that pack indices and compress with the
// best zlib level.
func DefaultOptions() *Options {
	return &Options{
		Compressor: compression.DefaultZlib(),
		Filter:     filter.DefaultOptions(),
		PackBits:   true,
	}
}

// Result describes a file written by Encode.
type Result struct {
	BitDepth int          // bits per palette index
	Filters  filter.Stats // rows per filter type
	RawSize  int          // filtered stream size before compression
	IDATSize int          // compressed payload size
	Size     int          // total bytes written
}

// Encode writes ix to w as an indexed-colour PNG.
func Encode(w io.Writer, ix *quantize.Indexed, opts *Options) (*Result, error) {
	data, res, err := Marshal(ix, opts)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	return res, nil
}

// Marshal returns ix encoded as an indexed-colour PNG.
func Marshal(ix *quantize.Indexed, opts *Options) ([]byte, *Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	// PNG stores each dimension as a positive 31-bit integer.
	if ix.Width > math.MaxInt32 || ix.Height > math.MaxInt32 {
		return nil, nil, fmt.Errorf("%w: %dx%d exceeds the PNG limit", filter.ErrInvalidGeometry, ix.Width, ix.Height)
	}
	if err := filter.Palette(ix.Width, ix.Height).Validate(); err != nil {
		return nil, nil, err
	}
	if len(ix.Palette) == 0 || len(ix.Palette) > 256 {
		return nil, nil, fmt.Errorf("%w: %d entries", ErrPalette, len(ix.Palette))
	}
	if len(ix.Pix) < ix.Width*ix.Height {
		return nil, nil, fmt.Errorf("%w: %d indices for %dx%d pixels", filter.ErrShortBuffer, len(ix.Pix), ix.Width, ix.Height)
	}

	for i, p := range ix.Pix[:ix.Width*ix.Height] {
		if int(p) >= len(ix.Palette) {
			return nil, nil, fmt.Errorf("%w: pixel %d has index %d, palette has %d entries", ErrPalette, i, p, len(ix.Palette))
		}
	}

	depth := 8
	if opts.PackBits {
		depth = BitDepthFor(len(ix.Palette))
	}
	g := filter.Geometry{Width: ix.Width, Height: ix.Height, BitDepth: depth, Channels: 1}
	if err := g.Validate(); err != nil {
		return nil, nil, err
	}

	raw := Pack(ix.Pix, ix.Width, ix.Height, depth)
	stream, stats, err := filter.EncodeStats(raw, g, opts.Filter)
	if err != nil {
		return nil, nil, err
	}

	comp := opts.Compressor
	if comp == nil {
		comp = compression.DefaultZlib()
	}
	payload, err := comp.Compress(stream)
	if err != nil {
		return nil, nil, fmt.Errorf("pngfile: compress: %w", err)
	}

	plte, trns := paletteChunks(ix.Palette)

	w := bigendian.NewBufferWriter(len(payload) + len(plte) + len(trns) + 128)
	w.WriteString(Signature)

	hdr := bigendian.NewBufferWriter(ihdrLen)
	hdr.WriteUint32(uint32(ix.Width))
	hdr.WriteUint32(uint32(ix.Height))
	hdr.WriteByte(byte(depth))
	hdr.WriteByte(colorTypePalette)
	hdr.WriteByte(0) // compression method: deflate
	hdr.WriteByte(0) // filter method: adaptive
	hdr.WriteByte(0) // no interlace
	appendChunk(w, "IHDR", hdr.Bytes())

	appendChunk(w, "PLTE", plte)
	if trns != nil {
		appendChunk(w, "tRNS", trns)
	}
	for off := 0; off < len(payload); off += idatChunkSize {
		appendChunk(w, "IDAT", payload[off:min(off+idatChunkSize, len(payload))])
	}
	appendChunk(w, "IEND", nil)

	return w.Bytes(), &Result{
		BitDepth: depth,
		Filters:  stats,
		RawSize:  len(stream),
		IDATSize: len(payload),
		Size:     w.Len(),
	}, nil
}
