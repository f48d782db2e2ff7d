package reporter

import (
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// Console is a Reporter that writes structured log lines through zerolog
// and renders an interactive progress bar for long-running phases.
type Console struct {
	log zerolog.Logger
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewConsole returns a Console writing human-readable (non-JSON) log lines
// and progress bars to w.
func NewConsole(w io.Writer) *Console {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: false}
	return &Console{
		log: zerolog.New(cw).With().Timestamp().Logger(),
		out: w,
	}
}

func (c *Console) Header(title string) {
	c.log.Info().Msg("=== " + title + " ===")
}

func (c *Console) Event(level Level, format string, args ...any) {
	var ev *zerolog.Event
	switch level {
	case LevelSuccess:
		ev = c.log.Info()
	case LevelWarn:
		ev = c.log.Warn()
	case LevelError:
		ev = c.log.Error()
	default:
		ev = c.log.Info()
	}
	ev.Msgf(format, args...)
}

func (c *Console) Item(label, format string, args ...any) {
	c.log.Info().Str("item", label).Msgf(format, args...)
}

func (c *Console) Progress(fraction float64) {
	if c.bar == nil {
		c.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(c.out),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = c.bar.Set(int(fraction * 100))
}

func (c *Console) Done() {
	if c.bar != nil {
		_ = c.bar.Finish()
		c.bar = nil
	}
}

// SizeStats logs the original vs. encoded size and the resulting
// compression ratio, formatting byte counts with humanize.
func (c *Console) SizeStats(originalBits, encodedBits uint64, nodes int, elapsed time.Duration) {
	originalBytes := (originalBits + 7) / 8
	encodedBytes := (encodedBits + 7) / 8
	ratio := 0.0
	if originalBits > 0 {
		ratio = float64(encodedBits) / float64(originalBits) * 100.0
	}
	c.log.Info().
		Str("original", humanize.Bytes(originalBytes)).
		Str("encoded", humanize.Bytes(encodedBytes)).
		Int("nodes", nodes).
		Dur("elapsed", elapsed).
		Msgf("compression rate %.2f%%", ratio)
}

var _ Reporter = (*Console)(nil)
