package pngfile

// Pack packs one-byte-per-pixel indices into rows of depth-bit samples,
// most significant bits first, each row padded to a whole byte. At depth 8
// pix is returned unchanged.
func Pack(pix []byte, width, height, depth int) []byte {
	if depth == 8 {
		return pix
	}
	stride := (width*depth + 7) / 8
	mask := byte(1<<depth - 1)
	out := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		row := pix[y*width : (y+1)*width]
		dst := out[y*stride : (y+1)*stride]
		for x, p := range row {
			bit := x * depth
			shift := 8 - depth - bit%8
			dst[bit/8] |= (p & mask) << shift
		}
	}
	return out
}

// Unpack reverses Pack, returning one byte per pixel.
func Unpack(packed []byte, width, height, depth int) []byte {
	if depth == 8 {
		return packed
	}
	stride := (width*depth + 7) / 8
	mask := byte(1<<depth - 1)
	out := make([]byte, width*height)
	for y := 0; y < height; y++ {
		src := packed[y*stride : (y+1)*stride]
		row := out[y*width : (y+1)*width]
		for x := range row {
			bit := x * depth
			shift := 8 - depth - bit%8
			row[x] = (src[bit/8] >> shift) & mask
		}
	}
	return out
}
