//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/term"
)

type hostSerial struct {
	mu sync.Mutex
	r  *os.File
	w  *os.File
}

func (s *hostSerial) Read(p []byte) (int, error) {
	if s.r == nil {
		return 0, ErrNotImplemented
	}
	return s.r.Read(p)
}

func (s *hostSerial) Write(p []byte) (int, error) {
	if s.w == nil {
		return 0, ErrNotImplemented
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// ttySerial is a real serial port, e.g. a USB-UART bridge wired to another
// board's console.
type ttySerial struct {
	mu sync.Mutex
	t  *term.Term
}

func openTTYSerial(path string, baud int) (*ttySerial, error) {
	if baud <= 0 {
		baud = 115200
	}
	t, err := term.Open(path, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", path, err)
	}
	return &ttySerial{t: t}, nil
}

func (s *ttySerial) Read(p []byte) (int, error) { return s.t.Read(p) }

func (s *ttySerial) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.Write(p)
}

func (s *ttySerial) Close() error {
	_ = s.t.Restore()
	return s.t.Close()
}
