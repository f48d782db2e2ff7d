// Package raster reads and writes binary PGM (P5) grayscale images: the
// pixel format the codec's tree builder and renderer operate on.
package raster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/bits"
)

// ErrFormat is returned for any malformed PGM stream: bad magic, a missing
// or unparsable header field, or a truncated pixel section.
var ErrFormat = errors.New("raster: invalid PGM stream")

// ErrSize is returned when the image is not square or its side is not a
// power of two, the shape every quadtree operation requires.
var ErrSize = errors.New("raster: width and height must be equal and a power of two")

const maxHeaderFieldLen = 256

// Image is a square 8-bit grayscale raster in row-major order.
type Image struct {
	Side     int
	MaxValue uint8
	Pixels   []byte
}

// ReadPGM parses a binary PGM (P5) image from r.
func ReadPGM(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, 2)
	if _, err := io.ReadFull(br, magic); err != nil || string(magic) != "P5" {
		return nil, fmt.Errorf("raster: missing P5 magic: %w", ErrFormat)
	}

	width, err := readUint(br, true)
	if err != nil {
		return nil, fmt.Errorf("raster: reading width: %w", err)
	}
	height, err := readUint(br, true)
	if err != nil {
		return nil, fmt.Errorf("raster: reading height: %w", err)
	}
	if !IsPowerOfTwoSquare(width, height) {
		return nil, fmt.Errorf("raster: %dx%d: %w", width, height, ErrSize)
	}

	maxVal, err := readUint(br, true)
	if err != nil {
		return nil, fmt.Errorf("raster: reading max value: %w", err)
	}
	if maxVal > 255 {
		return nil, fmt.Errorf("raster: max value %d exceeds 255: %w", maxVal, ErrFormat)
	}

	// Exactly one whitespace byte must separate the max-value field from
	// the raw pixel data.
	sep, err := br.ReadByte()
	if err != nil || !isSpace(sep) {
		return nil, fmt.Errorf("raster: missing separator after max value: %w", ErrFormat)
	}

	pixelCount := width * width
	pixels := make([]byte, pixelCount)
	if _, err := io.ReadFull(br, pixels); err != nil {
		return nil, fmt.Errorf("raster: reading %d pixel bytes: %w", pixelCount, ErrFormat)
	}

	return &Image{Side: width, MaxValue: uint8(maxVal), Pixels: pixels}, nil
}

// WritePGM serializes img as a binary PGM (P5) image to w.
func WritePGM(w io.Writer, img *Image) error {
	if img.Side <= 0 || len(img.Pixels) != img.Side*img.Side {
		return fmt.Errorf("raster: image side %d does not match %d pixels: %w", img.Side, len(img.Pixels), ErrFormat)
	}
	if _, err := fmt.Fprintf(w, "P5\n%d %d\n%d\n", img.Side, img.Side, img.MaxValue); err != nil {
		return err
	}
	_, err := w.Write(img.Pixels)
	return err
}

// IsPowerOfTwoSquare reports whether an image of this width/height is a
// valid input for the tree builder.
func IsPowerOfTwoSquare(width, height int) bool {
	return width == height && width > 0 && bits.OnesCount(uint(width)) == 1
}

// skipWhitespaceAndComments advances past runs of whitespace and '#'
// comments, mirroring skip_ws_and_comments: a comment runs to end of line.
func skipWhitespaceAndComments(br *bufio.Reader) error {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return err
		}
		switch {
		case isSpace(b):
			continue
		case b == '#':
			for {
				c, err := br.ReadByte()
				if err != nil {
					return err
				}
				if c == '\n' {
					break
				}
			}
		default:
			return br.UnreadByte()
		}
	}
}

// readUint skips leading whitespace/comments (if skipLeading) then parses
// a run of ASCII digits ended by EOF or by the first non-digit byte, which
// is left unread.
func readUint(br *bufio.Reader, skipLeading bool) (int, error) {
	if skipLeading {
		if err := skipWhitespaceAndComments(br); err != nil {
			return 0, err
		}
	}

	var digits []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			if len(digits) > 0 {
				break
			}
			return 0, err
		}
		if b < '0' || b > '9' {
			if len(digits) == 0 {
				return 0, ErrFormat
			}
			br.UnreadByte()
			break
		}
		digits = append(digits, b)
		if len(digits) > maxHeaderFieldLen {
			return 0, ErrFormat
		}
	}

	n := 0
	for _, d := range digits {
		n = n*10 + int(d-'0')
	}
	return n, nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
