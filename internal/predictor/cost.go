package predictor

// Cost returns the sum over the row of min(r, 256-r), where r is the
// residual of cur under predictor k. Small signed residuals cost little,
// which approximates how well the filtered row will entropy-code.
//
// No residual buffer is needed; the residuals are computed on the fly.
func Cost(k Kind, cur, prev []byte, bpp int) int {
	if len(prev) != len(cur) {
		panic("predictor: row length mismatch")
	}
	n := min(bpp, len(cur))
	sum := 0
	switch k {
	case None:
		for _, r := range cur {
			sum += magnitude(r)
		}
	case Sub:
		for i := 0; i < n; i++ {
			sum += magnitude(cur[i])
		}
		for i := n; i < len(cur); i++ {
			sum += magnitude(cur[i] - cur[i-bpp])
		}
	case Up:
		for i := range cur {
			sum += magnitude(cur[i] - prev[i])
		}
	case Average:
		for i := 0; i < n; i++ {
			sum += magnitude(cur[i] - prev[i]/2)
		}
		for i := n; i < len(cur); i++ {
			sum += magnitude(cur[i] - byte((int(cur[i-bpp])+int(prev[i]))/2))
		}
	case Paeth:
		for i := 0; i < n; i++ {
			sum += magnitude(cur[i] - prev[i])
		}
		for i := n; i < len(cur); i++ {
			sum += magnitude(cur[i] - PaethPredictor(cur[i-bpp], prev[i], prev[i-bpp]))
		}
	default:
		panic("predictor: unknown kind")
	}
	return sum
}

// magnitude maps a residual to its distance from zero modulo 256.
func magnitude(r byte) int {
	if r < 128 {
		return int(r)
	}
	return 256 - int(r)
}
