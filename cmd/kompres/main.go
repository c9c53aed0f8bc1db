// kompres recompresses an image into a smaller palette PNG.
//
// Usage:
//
//	kompres [options] <filename>
//
// Options:
//
//	-q, --quiet       Print nothing on success.
//	-v, --verbose     Report palette, filter and chunk details.
//	--fast            Sub filter on every row and the fastest zlib level.
//	--filter NAME     Row filter: heuristic, trial, none, sub, up, average, paeth.
//	--level N         zlib level, -2 (Huffman only) to 9.
//	--colors N        Largest palette, 2 to 256.
//	--dither          Floyd-Steinberg dithering when mapping to the palette.
//	--no-pack         Always store one byte per pixel.
//	-h, --help        Show this help message.
//	--version         Show version information.
//
// The result is written beside the input as <name>-compressed.png.
//
// Exit codes:
//
//	0: Success
//	1: The image could not be read, recompressed or written
//	2: Usage error
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mrjoshuak/go-kompres/compression"
	"github.com/mrjoshuak/go-kompres/filter"
	"github.com/mrjoshuak/go-kompres/kompres"
	"github.com/mrjoshuak/go-kompres/pngfile"
)

const version = "1.0.0"

var errUsage = errors.New("usage error")

// config holds the parsed command line.
type config struct {
	quiet   bool
	verbose bool
	help    bool
	version bool
	file    string
	opts    *kompres.Options
}

func main() {
	tty := term.IsTerminal(int(os.Stdout.Fd()))
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, tty))
}

func run(args []string, stdout, stderr io.Writer, tty bool) int {
	cfg, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printUsage(stderr)
		return 2
	}
	if cfg.help {
		printUsage(stdout)
		return 0
	}
	if cfg.version {
		fmt.Fprintf(stdout, "kompres version %s\n", version)
		return 0
	}

	out, res, err := kompres.RecompressFile(cfg.file, cfg.opts)
	if err != nil {
		fmt.Fprintf(stderr, "%s: error: %v\n", cfg.file, err)
		return 1
	}

	switch {
	case cfg.quiet:
	case !tty:
		fmt.Fprintf(stdout, "%s\t%s\t%d\t%d\t%d\t%d\n",
			cfg.file, out, res.InputSize, res.OutputSize, res.Colors, res.BitDepth)
	default:
		printSummary(stdout, cfg.file, out, res)
	}

	if cfg.verbose {
		if err := printDetails(stderr, out, res); err != nil {
			fmt.Fprintf(stderr, "%s: error: %v\n", out, err)
			return 1
		}
	}
	return 0
}

func parseArgs(args []string) (*config, error) {
	cfg := &config{opts: kompres.DefaultOptions()}
	cfg.opts.Quantize.Dither = false

	var filterName string
	level := cfg.opts.Level
	fast := false
	var files []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")

		// next returns the option's value, either after "=" or as the
		// following argument.
		next := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%w: %s needs a value", errUsage, name)
			}
			i++
			return args[i], nil
		}

		switch name {
		case "-q", "--quiet":
			cfg.quiet = true
		case "-v", "--verbose":
			cfg.verbose = true
		case "-h", "--help":
			cfg.help = true
		case "--version":
			cfg.version = true
		case "--fast":
			fast = true
		case "--dither":
			cfg.opts.Quantize.Dither = true
		case "--no-pack":
			cfg.opts.PackBits = false
		case "--filter":
			v, err := next()
			if err != nil {
				return nil, err
			}
			filterName = v
		case "--level":
			v, err := next()
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || !compression.Level(n).Valid() {
				return nil, fmt.Errorf("%w: invalid level %q", errUsage, v)
			}
			level = compression.Level(n)
		case "--colors":
			v, err := next()
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 2 || n > 256 {
				return nil, fmt.Errorf("%w: invalid colour count %q", errUsage, v)
			}
			cfg.opts.Quantize.MaxColors = n
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("%w: unknown option %s", errUsage, arg)
			}
			files = append(files, arg)
		}
	}

	if cfg.help || cfg.version {
		return cfg, nil
	}
	if len(files) != 1 {
		return nil, fmt.Errorf("%w: expected one filename, got %d", errUsage, len(files))
	}
	cfg.file = files[0]

	if fast {
		fastOpts := kompres.FastOptions()
		cfg.opts.Filter = fastOpts.Filter
		if level == compression.LevelBestSize {
			level = fastOpts.Level
		}
	}
	if filterName != "" {
		sel, err := filter.ParseSelector(filterName, level)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		cfg.opts.Filter = &filter.Options{Selector: sel}
	}
	cfg.opts.Level = level
	return cfg, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: kompres [options] <filename>

Recompress an image into a smaller palette PNG written beside it
as <name>-compressed.png.

Options:
  -q, --quiet       Print nothing on success.
  -v, --verbose     Report palette, filter and chunk details.
  --fast            Sub filter on every row and the fastest zlib level.
  --filter NAME     Row filter: heuristic, trial, none, sub, up, average, paeth.
  --level N         zlib level, -2 (Huffman only) to 9.
  --colors N        Largest palette, 2 to 256.
  --dither          Floyd-Steinberg dithering when mapping to the palette.
  --no-pack         Always store one byte per pixel.
  -h, --help        Show this help message.
  --version         Show version information.

Exit codes:
  0: Success
  1: The image could not be read, recompressed or written
  2: Usage error

Examples:
  kompres photo.png                 Write photo-compressed.png
  kompres --fast --colors 64 a.jpg  Quick 64-colour PNG of a JPEG`)
}

func printSummary(w io.Writer, in, out string, res kompres.Result) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%s -> %s\n", in, out)
	p.Fprintf(w, "  %d bytes -> %d bytes", res.InputSize, res.OutputSize)
	if res.InputSize > 0 {
		p.Fprintf(w, " (%.1f%%)", 100*res.Ratio())
	}
	p.Fprintf(w, "\n  %d colours, %d-bit indices", res.Colors, res.BitDepth)
	if res.Alpha {
		p.Fprintf(w, ", transparent")
	}
	p.Fprintf(w, "\n")
}

// printDetails reports the filter mix and re-reads the written file to
// list its chunks.
func printDetails(w io.Writer, out string, res kompres.Result) error {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "Filters:")
	for _, t := range filter.Types {
		p.Fprintf(w, " %s=%d", t, res.Filters[t])
	}
	p.Fprintf(w, "\n")

	data, err := os.ReadFile(out)
	if err != nil {
		return err
	}
	chunks, err := pngfile.ReadChunks(bytes.NewReader(data))
	if err != nil {
		return err
	}

	var idat []byte
	p.Fprintf(w, "Chunks:\n")
	for _, c := range chunks {
		p.Fprintf(w, "  %s %d bytes\n", c.Type, len(c.Data))
		if c.Type == "IDAT" {
			idat = append(idat, c.Data...)
		}
	}
	if fl, ok := compression.DetectZlibFLevel(idat); ok {
		p.Fprintf(w, "zlib: %s\n", fl)
	}
	return nil
}
