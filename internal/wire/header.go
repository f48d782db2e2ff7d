// Package wire implements the Q1 container header: the fixed magic,
// informational comments, and depth byte that precede every encoded body.
package wire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
)

// Magic is the two-byte signature that opens every Q1 file.
var Magic = [2]byte{'Q', '1'}

// MinLevels and MaxLevels bound the accepted depth byte: a tree must have
// at least one level and fit an 8-bit depth field.
const (
	MinLevels = 1
	MaxLevels = 32
)

// ErrFormat is returned for any header that fails to parse: bad magic,
// missing comment lines, or a depth byte outside [MinLevels, MaxLevels].
var ErrFormat = errors.New("wire: invalid or corrupt header")

// Header is the parsed content of a Q1 file header.
type Header struct {
	Levels          int
	Timestamp       string // the raw first comment line, opaque to the decoder
	CompressionRate float64
}

// WriteHeader emits the Q1 magic line, a timestamp comment, a compression-
// rate comment, and the depth byte, in that order. now is injected so
// callers (and tests) control the timestamp deterministically.
func WriteHeader(w io.Writer, levels int, totalBits, originalBits uint64, now time.Time) error {
	if levels < MinLevels || levels > MaxLevels {
		return fmt.Errorf("wire: levels %d out of range [%d,%d]: %w", levels, MinLevels, MaxLevels, ErrFormat)
	}

	var buf bytes.Buffer
	buf.Write(Magic[:])
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "# %s\n", now.Format("Mon Jan 2 15:04:05 2006"))

	rate := CompressionRate(totalBits, originalBits)
	fmt.Fprintf(&buf, "# compression rate %.2f%%\n", rate)
	buf.WriteByte(byte(levels))

	_, err := w.Write(buf.Bytes())
	return err
}

// CompressionRate returns totalBits as a percentage of originalBits,
// matching compress_get_rate's formula.
func CompressionRate(totalBits, originalBits uint64) float64 {
	if originalBits == 0 {
		return 0
	}
	return float64(totalBits) / float64(originalBits) * 100.0
}

// ReadHeader consumes and validates a Q1 header from r: the magic line,
// exactly two opaque comment lines, and the depth byte.
func ReadHeader(r *bufio.Reader) (Header, error) {
	var magic [2]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Header{}, fmt.Errorf("wire: reading magic: %w", ErrFormat)
	}
	if magic != Magic {
		return Header{}, fmt.Errorf("wire: magic %q, want %q: %w", magic, Magic, ErrFormat)
	}
	if b, err := r.ReadByte(); err != nil || b != '\n' {
		return Header{}, fmt.Errorf("wire: malformed magic line: %w", ErrFormat)
	}

	var h Header
	for i := 0; i < 2; i++ {
		line, err := r.ReadString('\n')
		if err != nil {
			return Header{}, fmt.Errorf("wire: reading comment line %d: %w", i+1, ErrFormat)
		}
		line = line[:len(line)-1] // trim '\n'
		if len(line) == 0 || line[0] != '#' {
			return Header{}, fmt.Errorf("wire: comment line %d missing '#': %w", i+1, ErrFormat)
		}
		if i == 0 {
			h.Timestamp = line
		} else {
			fmt.Sscanf(line, "# compression rate %f%%", &h.CompressionRate)
		}
	}

	depth, err := r.ReadByte()
	if err != nil {
		return Header{}, fmt.Errorf("wire: reading depth byte: %w", ErrFormat)
	}
	if depth < MinLevels || int(depth) > MaxLevels {
		return Header{}, fmt.Errorf("wire: depth byte %d out of range [%d,%d]: %w", depth, MinLevels, MaxLevels, ErrFormat)
	}
	h.Levels = int(depth)
	return h, nil
}
