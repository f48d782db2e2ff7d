// Command qtc compresses square power-of-two grayscale PGM rasters into
// the Q1 quadtree format and decompresses them back.
//
// Usage:
//
//	qtc -c -i <input.pgm> [-o <output.qtc>] [-a <alpha>] [-g <grid.pgm>] [-v]
//	qtc -u -i <input.qtc> [-o <output.pgm>] [-g <grid.pgm>] [-v]
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/qtreeimg/qtc"
	"github.com/qtreeimg/qtc/internal/reporter"
)

const (
	defaultCompressOutput   = "default_compress_output.qtc"
	defaultDecompressOutput = "default_compress_input.pgm"
)

func main() {
	err := run(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "qtc: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("qtc", flag.ContinueOnError)
	compress := fs.Bool("c", false, "compress the input PGM file")
	decompress := fs.Bool("u", false, "decompress the input Q1 file")
	input := fs.String("i", "", "input file path")
	output := fs.String("o", "", "output file path")
	alpha := fs.Float64("a", 1.0, "lossy filter parameter; applied only when > 1.0")
	gridPath := fs.String("g", "", "emit the partition-visualization raster to this path")
	verbose := fs.Bool("v", false, "enable verbose logging")
	fs.Usage = func() { printHelp(fs) }

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *compress && *decompress {
		return fmt.Errorf("cannot specify both -c and -u")
	}
	if !*compress && !*decompress {
		return fmt.Errorf("must specify either -c or -u")
	}
	if *input == "" {
		return fmt.Errorf("input file not specified (-i)")
	}
	if *alpha <= 0 {
		return fmt.Errorf("alpha=%v: %w", *alpha, qtc.ErrAlphaNotPositive)
	}

	outPath := *output
	if outPath == "" {
		if *compress {
			outPath = defaultCompressOutput
		} else {
			outPath = defaultDecompressOutput
		}
	}

	var rep reporter.Reporter = reporter.Nop{}
	if *verbose {
		rep = reporter.NewConsole(os.Stderr)
	}

	in, err := os.Open(*input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}

	if *compress {
		_, err = qtc.Compress(out, in, qtc.CompressOptions{Alpha: *alpha, Reporter: rep})
	} else {
		err = qtc.Decompress(out, in, qtc.DecompressOptions{Reporter: rep})
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	if *gridPath != "" {
		// The Q1-formatted side of the operation is the input file for
		// -u, or the file just written for -c.
		q1Path := *input
		if *compress {
			q1Path = outPath
		}
		if err := writeGrid(q1Path, *gridPath); err != nil {
			return fmt.Errorf("generating grid: %w", err)
		}
	}

	return nil
}

// writeGrid reads the Q1 file at q1Path and renders its segmentation
// boundaries to gridPath.
func writeGrid(q1Path, gridPath string) error {
	f, err := os.Open(q1Path)
	if err != nil {
		return err
	}
	defer f.Close()

	g, err := os.Create(gridPath)
	if err != nil {
		return err
	}
	defer g.Close()

	return qtc.Grid(g, f)
}

func printHelp(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage: qtc [options]
Options:
  -c              Compress the input PGM file
  -u              Decompress the input Q1 file
  -i <input>      Input file path
  -o <output>     Output file path
  -g <path>       Emit the partition-visualization raster to <path>
  -a <alpha>      Lossy filter parameter (default: 1.0)
  -v              Enable verbose logging
  -h              Display this help
`)
}
