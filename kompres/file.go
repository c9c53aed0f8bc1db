package kompres

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Formats image.Decode understands.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/mrjoshuak/go-jpeg2000"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotFile is returned when the input path is not a regular file.
var ErrNotFile = errors.New("kompres: not a regular file")

// jpeg2000Exts lists extensions decoded with go-jpeg2000. Those streams
// have no magic image.Decode can sniff reliably, so the extension decides.
var jpeg2000Exts = map[string]bool{
	".jp2": true,
	".j2k": true,
	".j2c": true,
	".jpc": true,
}

// Load decodes the image at path. PNG, GIF, JPEG, BMP, TIFF and WebP are
// recognised by content; JPEG 2000 by extension. It also returns the file
// size.
func Load(path string) (image.Image, int64, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	if !st.Mode().IsRegular() {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	img, err := decode(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, 0, fmt.Errorf("kompres: decode %s: %w", path, err)
	}
	return img, int64(len(data)), nil
}

func decode(data []byte, ext string) (image.Image, error) {
	if jpeg2000Exts[ext] {
		return jpeg2000.Decode(bytes.NewReader(data))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// OutputPath returns the path RecompressFile writes for input in: the
// same directory, the stem suffixed with "-compressed". PNG inputs keep
// their extension; everything else becomes ".png".
func OutputPath(in string) string {
	ext := filepath.Ext(in)
	stem := strings.TrimSuffix(in, ext)
	if !strings.EqualFold(ext, ".png") {
		ext = ".png"
	}
	return stem + "-compressed" + ext
}

// RecompressFile loads in, recompresses it and writes the result to
// OutputPath(in), replacing any existing file there. It returns the output
// path.
func RecompressFile(in string, opts *Options) (string, Result, error) {
	img, size, err := Load(in)
	if err != nil {
		return "", Result{}, err
	}

	data, res, err := Recompress(img, opts)
	if err != nil {
		return "", Result{}, fmt.Errorf("kompres: %s: %w", in, err)
	}
	res.InputSize = size

	out := OutputPath(in)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", Result{}, err
	}
	return out, res, nil
}
