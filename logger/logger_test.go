package logger

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestDrainStopFlushesBufferedLines(t *testing.T) {
	l := Init()
	for i := 0; i < 10; i++ {
		l.Printf("line %d", i)
	}

	var buf bytes.Buffer
	stop := l.Drain(&buf)
	stop()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 10 {
		t.Fatalf("drained %d lines, expected 10: %q", len(lines), buf.String())
	}
	for i, line := range lines {
		if want := fmt.Sprintf("line %d", i); line != want {
			t.Errorf("line %d: got %q, expected %q", i, line, want)
		}
	}
}

func TestPrintError(t *testing.T) {
	l := Init()
	l.PrintError("dial", fmt.Errorf("refused"))

	if got := <-l.Prints; got != "Error(dial) -> refused" {
		t.Errorf("got %q", got)
	}
}
