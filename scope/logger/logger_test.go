package logger

import (
	"strings"
	"testing"

	"voltscope/kernel"
)

type lineSink struct {
	lines []string
}

func (s *lineSink) WriteLineString(line string) { s.lines = append(s.lines, line) }
func (s *lineSink) WriteLineBytes(b []byte)     { s.lines = append(s.lines, string(b)) }

func TestPrintfReachesSink(t *testing.T) {
	sys := kernel.NewSystem()
	sink := &lineSink{}
	svc := NewService(sink, sys)

	log := New(sys, kernel.EPKernel).With("capture")
	log.Printf("read failed: %d", 3)

	if !svc.Step() {
		t.Fatalf("Step() = false, want true")
	}
	if svc.Step() {
		t.Fatalf("second Step() = true, want false")
	}
	if len(sink.lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(sink.lines))
	}
	got := sink.lines[0]
	if !strings.HasPrefix(got, "[    0.000] ") {
		t.Fatalf("line = %q, want uptime prefix", got)
	}
	if !strings.HasSuffix(got, "capture: read failed: 3") {
		t.Fatalf("line = %q, want suffix %q", got, "capture: read failed: 3")
	}
}

func TestNilLoggerDiscards(t *testing.T) {
	var log *Logger
	log.Printf("dropped %d", 1)
	if log.With("x") != nil {
		t.Fatalf("With() on nil = non-nil, want nil")
	}
}
