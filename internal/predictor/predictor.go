// Package predictor implements the five PNG scanline predictors.
//
// Each predictor turns a row of raw bytes into residuals relative to a
// prediction made from already-seen neighbours: the byte bpp positions to
// the left (a), the byte above (b) and the byte above-left (c). Residuals
// are taken modulo 256, so every transform is exactly reversible given the
// reconstructed row above.
//
//	c b
//	a x
//
// Kernels operate on one row at a time. The row above is always supplied;
// callers pass an all-zero row for the first scanline.
package predictor

import "fmt"

// Kind identifies a predictor. The numeric value is the filter type byte
// stored in front of each row of a PNG IDAT stream.
type Kind uint8

const (
	None    Kind = 0
	Sub     Kind = 1
	Up      Kind = 2
	Average Kind = 3
	Paeth   Kind = 4
)

// NumKinds is the number of defined predictors.
const NumKinds = 5

// Valid reports whether k is a defined predictor.
func (k Kind) Valid() bool {
	return k < NumKinds
}

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Sub:
		return "sub"
	case Up:
		return "up"
	case Average:
		return "average"
	case Paeth:
		return "paeth"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

type kernel struct {
	forward func(dst, cur, prev []byte, bpp int)
	inverse func(row, prev []byte, bpp int)
}

var kernels = [NumKinds]kernel{
	None:    {forwardNone, inverseNone},
	Sub:     {forwardSub, inverseSub},
	Up:      {forwardUp, inverseUp},
	Average: {forwardAverage, inverseAverage},
	Paeth:   {forwardPaeth, inversePaeth},
}

// Forward writes the residuals of cur under predictor k into dst.
// dst, cur and prev must all have the same length; dst must not alias cur.
// bpp is the distance in bytes to the left neighbour and must be at least 1.
func Forward(k Kind, dst, cur, prev []byte, bpp int) {
	checkRow(dst, cur, prev, bpp)
	kernels[k].forward(dst, cur, prev, bpp)
}

// Inverse reconstructs row in place from the residuals produced by
// predictor k, given the already reconstructed row above.
func Inverse(k Kind, row, prev []byte, bpp int) {
	checkRow(row, row, prev, bpp)
	kernels[k].inverse(row, prev, bpp)
}

func checkRow(dst, cur, prev []byte, bpp int) {
	if len(dst) != len(cur) || len(prev) != len(cur) {
		panic("predictor: row length mismatch")
	}
	if bpp < 1 {
		panic("predictor: bytes per pixel must be positive")
	}
}

// PaethPredictor returns whichever of a (left), b (above) and c (upper left)
// is closest to a+b-c. Ties are broken in the order a, b, c.
func PaethPredictor(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))

	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func forwardNone(dst, cur, _ []byte, _ int) {
	copy(dst, cur)
}

func inverseNone(_, _ []byte, _ int) {}

func forwardSub(dst, cur, _ []byte, bpp int) {
	if bpp == 1 {
		copy(dst, cur)
		Encode(dst)
		return
	}
	n := min(bpp, len(cur))
	copy(dst[:n], cur[:n])
	for i := n; i < len(cur); i++ {
		dst[i] = cur[i] - cur[i-bpp]
	}
}

func inverseSub(row, _ []byte, bpp int) {
	if bpp == 1 {
		Decode(row)
		return
	}
	for i := bpp; i < len(row); i++ {
		row[i] += row[i-bpp]
	}
}

func forwardUp(dst, cur, prev []byte, _ int) {
	for i := range cur {
		dst[i] = cur[i] - prev[i]
	}
}

func inverseUp(row, prev []byte, _ int) {
	for i := range row {
		row[i] += prev[i]
	}
}

func forwardAverage(dst, cur, prev []byte, bpp int) {
	n := min(bpp, len(cur))
	for i := 0; i < n; i++ {
		dst[i] = cur[i] - prev[i]/2
	}
	for i := n; i < len(cur); i++ {
		dst[i] = cur[i] - byte((int(cur[i-bpp])+int(prev[i]))/2)
	}
}

func inverseAverage(row, prev []byte, bpp int) {
	n := min(bpp, len(row))
	for i := 0; i < n; i++ {
		row[i] += prev[i] / 2
	}
	for i := n; i < len(row); i++ {
		row[i] += byte((int(row[i-bpp]) + int(prev[i])) / 2)
	}
}

func forwardPaeth(dst, cur, prev []byte, bpp int) {
	n := min(bpp, len(cur))
	// With a and c both zero the Paeth predictor reduces to b.
	for i := 0; i < n; i++ {
		dst[i] = cur[i] - prev[i]
	}
	for i := n; i < len(cur); i++ {
		dst[i] = cur[i] - PaethPredictor(cur[i-bpp], prev[i], prev[i-bpp])
	}
}

func inversePaeth(row, prev []byte, bpp int) {
	n := min(bpp, len(row))
	for i := 0; i < n; i++ {
		row[i] += prev[i]
	}
	for i := n; i < len(row); i++ {
		row[i] += PaethPredictor(row[i-bpp], prev[i], prev[i-bpp])
	}
}
