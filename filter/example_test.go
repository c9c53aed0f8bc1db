package filter_test

import (
	"fmt"

	"github.com/mrjoshuak/go-kompres/filter"
)

// Example_fixed filters a 2x2 greyscale raster with the Up filter. The
// first row is predicted from an all-zero row, so it passes through.
func Example_fixed() {
	g := filter.Geometry{Width: 2, Height: 2, BitDepth: 8, Channels: 1}
	raw := []byte{10, 20, 15, 25}

	stream, err := filter.Encode(raw, g, &filter.Options{Selector: filter.Fixed(filter.Up)})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(stream)

	back, err := filter.Decode(stream, g)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(back)
	// Output:
	// [2 10 20 2 5 5]
	// [10 20 15 25]
}

// Example_geometry shows the row layout of a 4-bit palette image.
func Example_geometry() {
	g := filter.Palette(3, 2)
	g.BitDepth = 4
	fmt.Println(g.Stride(), g.Unit(), g.FilteredLen())
	// Output:
	// 2 1 6
}
