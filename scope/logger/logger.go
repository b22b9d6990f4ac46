// Package logger carries log lines from any context to the HAL line sink
// through the kernel's logger mailbox.
package logger

import (
	"context"
	"fmt"

	"voltscope/hal"
	"voltscope/kernel"
)

// Logger formats lines and posts them to the logger service. Printf never
// blocks: a full mailbox drops the line. A nil *Logger discards everything.
type Logger struct {
	sys    *kernel.System
	from   kernel.Endpoint
	prefix string
}

// New returns a Logger that posts through sys.
func New(sys *kernel.System, from kernel.Endpoint) *Logger {
	return &Logger{sys: sys, from: from}
}

// With returns a copy that prepends "name: " to every line.
func (l *Logger) With(name string) *Logger {
	if l == nil {
		return nil
	}
	c := *l
	c.prefix = l.prefix + name + ": "
	return &c
}

// Printf formats a line stamped with the kernel uptime.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.sys == nil {
		return
	}
	ms := l.sys.Ticks()
	line := fmt.Sprintf("[%5d.%03d] %s", ms/1000, ms%1000, l.prefix) + fmt.Sprintf(format, args...)
	l.sys.TrySend(l.from, kernel.EPLogger, kernel.MsgLog, []byte(line))
}

// Service drains the logger mailbox into a hal.Logger.
type Service struct {
	log hal.Logger
	sys *kernel.System
}

func NewService(log hal.Logger, sys *kernel.System) *Service {
	return &Service{log: log, sys: sys}
}

// Step writes at most one pending line and reports whether it found one.
func (s *Service) Step() bool {
	msg, ok := s.sys.TryRecv(kernel.EPLogger)
	if !ok {
		return false
	}
	s.write(msg)
	return true
}

// Run writes lines until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	for {
		msg, err := s.sys.Recv(ctx, kernel.EPLogger)
		if err != nil {
			return err
		}
		s.write(msg)
	}
}

func (s *Service) write(msg kernel.Message) {
	if s.log == nil || msg.Kind != kernel.MsgLog {
		return
	}
	s.log.WriteLineBytes(msg.Payload())
}
