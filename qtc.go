// Package qtc implements a lossy/lossless quadtree grayscale image codec:
// a bottom-up tree build over a power-of-two raster, a breadth-first
// bit-packed wire format, and an optional variance-driven pruning pass
// that trades fidelity for size.
package qtc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/qtreeimg/qtc/internal/codec"
	"github.com/qtreeimg/qtc/internal/lossy"
	"github.com/qtreeimg/qtc/internal/quadtree"
	"github.com/qtreeimg/qtc/internal/raster"
	"github.com/qtreeimg/qtc/internal/render"
	"github.com/qtreeimg/qtc/internal/reporter"
	"github.com/qtreeimg/qtc/internal/wire"
)

// Errors returned by Compress and Decompress. These are the sentinel
// errors of the internal packages that actually detect the fault,
// re-exported under this package's name, so callers can errors.Is against
// either this package's alias or the originating package's sentinel.
var (
	ErrInvalidParameter = quadtree.ErrInvalidParameter
	ErrFormat           = wire.ErrFormat
)

// CompressOptions configures a Compress call.
type CompressOptions struct {
	// Alpha enables the lossy variance filter when > 1.0. Values <= 1.0
	// leave the tree untouched (lossless compression).
	Alpha float64
	// Reporter receives progress and status events, if non-nil.
	Reporter reporter.Reporter
}

// CompressResult reports what Compress produced, for callers that want to
// print statistics without re-deriving them from the written bytes.
type CompressResult struct {
	Levels          int
	TotalBits       uint64
	OriginalBits    uint64
	CompressionRate float64
}

// Compress reads a square power-of-two PGM raster from src, optionally
// applies the variance filter, and writes a Q1 file to dst.
func Compress(dst io.Writer, src io.Reader, opts CompressOptions) (CompressResult, error) {
	rep := opts.Reporter
	if rep == nil {
		rep = reporter.Nop{}
	}

	rep.Header("QUADTREE COMPRESSION")
	start := time.Now()

	img, err := raster.ReadPGM(src)
	if err != nil {
		rep.Event(reporter.LevelError, "reading input raster: %v", err)
		return CompressResult{}, fmt.Errorf("qtc: reading input raster: %w", err)
	}
	rep.Item("Image size", "%dx%d pixels", img.Side, img.Side)

	rep.Header("Building quadtree")
	tree, err := quadtree.Build(img.Pixels, img.Side, func(f float64) { rep.Progress(f) })
	if err != nil {
		rep.Event(reporter.LevelError, "invalid compression parameters: %v", err)
		return CompressResult{}, fmt.Errorf("qtc: building tree: %w", err)
	}
	rep.Done()

	if opts.Alpha > 1.0 {
		rep.Header("Applying lossy filtering")
		rep.Item("Alpha parameter", "%.2f", opts.Alpha)
		stats, err := lossy.Apply(tree, opts.Alpha)
		if err != nil {
			rep.Event(reporter.LevelError, "applying lossy filter: %v", err)
			return CompressResult{}, fmt.Errorf("qtc: applying lossy filter: %w", err)
		}
		rep.Item("Median variance", "%.4f", stats.Median)
		rep.Item("Maximum variance", "%.4f", stats.Max)
	}

	rep.Header("Compressing data")
	res, err := codec.Encode(tree, func(pass, total int) { rep.Progress(float64(pass) / float64(total)) })
	if err != nil {
		rep.Event(reporter.LevelError, "compression failed during data encoding: %v", err)
		return CompressResult{}, fmt.Errorf("qtc: encoding tree: %w", err)
	}
	rep.Done()

	originalBits := uint64(img.Side) * uint64(img.Side) * 8
	rate := wire.CompressionRate(res.TotalBits, originalBits)

	rep.Header("Writing output")
	if err := wire.WriteHeader(dst, tree.Levels, res.TotalBits, originalBits, time.Now()); err != nil {
		rep.Event(reporter.LevelError, "failed to write file header: %v", err)
		return CompressResult{}, fmt.Errorf("qtc: writing header: %w", err)
	}
	if err := codec.WriteBody(dst, res.Body); err != nil {
		rep.Event(reporter.LevelError, "failed to write compressed data: %v", err)
		return CompressResult{}, fmt.Errorf("qtc: writing body: %w", err)
	}

	rep.SizeStats(originalBits, res.TotalBits, res.NodesWritten, time.Since(start))
	rep.Event(reporter.LevelSuccess, "compression completed with %.2f%% ratio", rate)

	return CompressResult{
		Levels:          tree.Levels,
		TotalBits:       res.TotalBits,
		OriginalBits:    originalBits,
		CompressionRate: rate,
	}, nil
}

// DecompressOptions configures a Decompress call.
type DecompressOptions struct {
	Reporter reporter.Reporter
}

// Decompress reads a Q1 file from src and writes the reconstructed PGM
// raster to dst.
func Decompress(dst io.Writer, src io.Reader, opts DecompressOptions) error {
	rep := opts.Reporter
	if rep == nil {
		rep = reporter.Nop{}
	}

	rep.Header("QUADTREE DECOMPRESSION")

	br := bufio.NewReader(src)
	h, err := wire.ReadHeader(br)
	if err != nil {
		rep.Event(reporter.LevelError, "invalid file signature or header: %v", err)
		return fmt.Errorf("qtc: reading header: %w", err)
	}
	rep.Item("Tree depth", "%d levels", h.Levels)

	rep.Header("Decompressing data")
	tree, err := codec.Decode(br, h.Levels, func(pass, total int) { rep.Progress(float64(pass) / float64(total)) })
	if err != nil {
		rep.Event(reporter.LevelError, "tree decompression failed: %v", err)
		return fmt.Errorf("qtc: decoding tree: %w", err)
	}
	rep.Done()

	pixels := render.Pixels(tree)
	img := &raster.Image{Side: tree.Side, MaxValue: 255, Pixels: pixels}
	if err := raster.WritePGM(dst, img); err != nil {
		rep.Event(reporter.LevelError, "writing output raster: %v", err)
		return fmt.Errorf("qtc: writing output raster: %w", err)
	}
	rep.Event(reporter.LevelSuccess, "decompression completed")
	return nil
}

// Grid reads a Q1 file from src and writes a PGM raster showing its
// segmentation boundaries to dst, without reconstructing pixel values.
func Grid(dst io.Writer, src io.Reader) error {
	br := bufio.NewReader(src)
	h, err := wire.ReadHeader(br)
	if err != nil {
		return fmt.Errorf("qtc: reading header: %w", err)
	}
	tree, err := codec.Decode(br, h.Levels, nil)
	if err != nil {
		return fmt.Errorf("qtc: decoding tree: %w", err)
	}
	img := &raster.Image{Side: tree.Side, MaxValue: 255, Pixels: render.Grid(tree)}
	if err := raster.WritePGM(dst, img); err != nil {
		return fmt.Errorf("qtc: writing grid raster: %w", err)
	}
	return nil
}

// ErrAlphaNotPositive is returned when an alpha of 0 or less is supplied
// to a CLI or API entry point that requires a positive value.
var ErrAlphaNotPositive = errors.New("qtc: alpha must be positive")
