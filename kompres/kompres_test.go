package kompres

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrjoshuak/go-jpeg2000"
	"golang.org/x/image/bmp"

	"github.com/mrjoshuak/go-kompres/filter"
	"github.com/mrjoshuak/go-kompres/pngfile"
	"github.com/mrjoshuak/go-kompres/quantize"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), 128, 0xff})
		}
	}
	return img
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"photo.png", "photo-compressed.png"},
		{"dir/photo.PNG", "dir/photo-compressed.PNG"},
		{"a.b/photo.jpg", "a.b/photo-compressed.png"},
		{"scan.tiff", "scan-compressed.png"},
		{"noext", "noext-compressed.png"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRecompress(t *testing.T) {
	img := gradient(64, 48)
	data, res, err := Recompress(img, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.OutputSize != int64(len(data)) {
		t.Errorf("OutputSize = %d, len = %d", res.OutputSize, len(data))
	}
	if res.Filters.Rows() != 48 {
		t.Errorf("Filters.Rows() = %d, want 48", res.Filters.Rows())
	}
	if res.Colors < 2 || res.Colors > 256 {
		t.Errorf("Colors = %d", res.Colors)
	}
	if res.Alpha {
		t.Error("Alpha = true for an opaque image")
	}

	out, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if out.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", out.Bounds(), img.Bounds())
	}
	if _, ok := out.(*image.Paletted); !ok {
		t.Errorf("decoded %T, want *image.Paletted", out)
	}
}

func TestRecompressSmallPalettePacks(t *testing.T) {
	pal := color.Palette{color.Black, color.White, color.NRGBA{255, 0, 0, 255}}
	img := image.NewPaletted(image.Rect(0, 0, 30, 10), pal)
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 3)
	}

	data, res, err := Recompress(img, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.BitDepth != 2 || res.Colors != 3 {
		t.Errorf("BitDepth %d Colors %d, want 2 and 3", res.BitDepth, res.Colors)
	}

	img.Palette[1] = color.NRGBA{255, 255, 255, 0}
	if _, res, err := Recompress(img, nil); err != nil || !res.Alpha {
		t.Errorf("translucent palette: Alpha = %v, err %v", res.Alpha, err)
	}

	ix, err := pngfile.ReadIndexed(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ix.Pix, img.Pix) {
		t.Error("indices changed through the pipeline")
	}

	opts := DefaultOptions()
	opts.PackBits = false
	if _, res, err = Recompress(img, opts); err != nil || res.BitDepth != 8 {
		t.Errorf("unpacked BitDepth = %d, err %v", res.BitDepth, err)
	}
}

func TestFastOptions(t *testing.T) {
	_, res, err := Recompress(gradient(40, 40), FastOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Filters[filter.Sub] != 40 {
		t.Errorf("Filters = %v, want every row Sub", res.Filters)
	}
}

func TestRecompressErrors(t *testing.T) {
	opts := DefaultOptions()
	opts.Quantize = &quantize.Options{MaxColors: 1}
	if _, _, err := Recompress(gradient(4, 4), opts); !errors.Is(err, quantize.ErrMaxColors) {
		t.Errorf("err = %v, want quantize.ErrMaxColors", err)
	}

	if _, _, err := Recompress(image.NewNRGBA(image.Rect(0, 0, 0, 0)), nil); !errors.Is(err, quantize.ErrEmptyImage) {
		t.Errorf("empty image err = %v, want quantize.ErrEmptyImage", err)
	}
}

func TestRecompressFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "img.png")

	var buf bytes.Buffer
	if err := png.Encode(&buf, gradient(50, 30)); err != nil {
		t.Fatal(err)
	}
	writeFile(t, in, buf.Bytes())

	out, res, err := RecompressFile(in, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != filepath.Join(dir, "img-compressed.png") {
		t.Errorf("out = %q", out)
	}
	if res.InputSize != int64(buf.Len()) {
		t.Errorf("InputSize = %d, want %d", res.InputSize, buf.Len())
	}
	if res.Saved() != res.InputSize-res.OutputSize {
		t.Errorf("Saved() = %d", res.Saved())
	}

	st, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() != res.OutputSize {
		t.Errorf("file size %d, OutputSize %d", st.Size(), res.OutputSize)
	}
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	src := gradient(16, 8)

	var b bytes.Buffer
	if err := bmp.Encode(&b, src); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "a.bmp"), b.Bytes())

	b.Reset()
	if err := jpeg2000.Encode(&b, src, &jpeg2000.Options{Format: jpeg2000.FormatJ2K, Lossless: true}); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "a.j2k"), b.Bytes())

	for _, name := range []string{"a.bmp", "a.j2k"} {
		img, size, err := Load(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("Load(%s): %v", name, err)
			continue
		}
		if size == 0 {
			t.Errorf("Load(%s) size = 0", name)
		}
		if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
			t.Errorf("Load(%s) bounds = %v", name, img.Bounds())
		}
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := Load(dir); !errors.Is(err, ErrNotFile) {
		t.Errorf("Load(dir) err = %v, want ErrNotFile", err)
	}
	if _, _, err := Load(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) err = %v, want os.ErrNotExist", err)
	}

	junk := filepath.Join(dir, "junk.png")
	writeFile(t, junk, []byte("not an image"))
	if _, _, err := Load(junk); err == nil {
		t.Error("Load(junk) succeeded")
	}
	if _, _, err := RecompressFile(junk, nil); err == nil {
		t.Error("RecompressFile(junk) succeeded")
	}
	if _, err := os.Stat(OutputPath(junk)); !os.IsNotExist(err) {
		t.Error("failed RecompressFile left an output file")
	}
}
