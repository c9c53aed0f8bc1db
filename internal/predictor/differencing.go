package predictor

// Encode applies byte-wise horizontal differencing in place: the first
// byte is kept and every later byte becomes the difference from its
// predecessor. This is the Sub predictor for rows with a one-byte pixel
// unit (8-bit palette and all sub-byte depths).
func Encode(data []byte) {
	n := len(data)
	if n < 2 {
		return
	}

	// Work backwards so every predecessor is still the raw value.
	// Unrolled by 8 for better pipelining.
	i := n - 1
	for ; i >= 8; i -= 8 {
		data[i] = data[i] - data[i-1]
		data[i-1] = data[i-1] - data[i-2]
		data[i-2] = data[i-2] - data[i-3]
		data[i-3] = data[i-3] - data[i-4]
		data[i-4] = data[i-4] - data[i-5]
		data[i-5] = data[i-5] - data[i-6]
		data[i-6] = data[i-6] - data[i-7]
		data[i-7] = data[i-7] - data[i-8]
	}

	for ; i >= 1; i-- {
		data[i] = data[i] - data[i-1]
	}
}

// Decode reverses Encode in place. Each byte becomes the running sum of
// itself and every byte before it, so the loop carries a strict
// left-to-right dependency.
func Decode(data []byte) {
	n := len(data)
	if n < 2 {
		return
	}

	i := 1
	for ; i+7 < n; i += 8 {
		data[i] += data[i-1]
		data[i+1] += data[i]
		data[i+2] += data[i+1]
		data[i+3] += data[i+2]
		data[i+4] += data[i+3]
		data[i+5] += data[i+4]
		data[i+6] += data[i+5]
		data[i+7] += data[i+6]
	}

	for ; i < n; i++ {
		data[i] += data[i-1]
	}
}
