package reporter

import (
	"bytes"
	"testing"
	"time"
)

func TestNop_NeverPanics(t *testing.T) {
	var r Reporter = Nop{}
	r.Header("x")
	r.Event(LevelError, "oops %d", 1)
	r.Item("label", "value %s", "v")
	r.Progress(0.5)
	r.Done()
}

func TestConsole_ImplementsReporter(t *testing.T) {
	var buf bytes.Buffer
	var r Reporter = NewConsole(&buf)
	r.Header("QUADTREE COMPRESSION")
	r.Item("Tree depth", "%d levels", 8)
	r.Event(LevelSuccess, "done")
	r.Progress(0.5)
	r.Done()
	if buf.Len() == 0 {
		t.Fatal("expected console output to be written")
	}
}

func TestConsole_SizeStatsWritesOutput(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.SizeStats(65536, 4096, 42, 10*time.Millisecond)
	if buf.Len() == 0 {
		t.Fatal("expected size stats output")
	}
}
