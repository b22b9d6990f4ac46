// Package console moves command bytes between the serial port and the
// control context without letting the control context block on I/O.
package console

import (
	"context"
	"errors"
	"io"
	"time"

	"voltscope/hal"
	"voltscope/kernel"
	"voltscope/scope/logger"
)

// Service owns the serial port. Its reader forwards incoming bytes to the
// console-in mailbox and its writer drains console-out to the port.
type Service struct {
	serial hal.Serial
	sys    *kernel.System
	log    *logger.Logger
}

func New(serial hal.Serial, sys *kernel.System, log *logger.Logger) *Service {
	return &Service{serial: serial, sys: sys, log: log.With("console")}
}

// Run serves the port until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	if s.serial == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	go s.readLoop(ctx)
	return s.writeLoop(ctx)
}

func (s *Service) readLoop(ctx context.Context) {
	buf := make([]byte, kernel.MaxMessageBytes)
	for ctx.Err() == nil {
		n, err := s.serial.Read(buf)
		if n > 0 {
			s.sys.Send(kernel.EPKernel, kernel.EPConsoleIn, kernel.MsgSerialData, buf[:n])
		}
		if errors.Is(err, io.EOF) {
			s.log.Printf("input closed")
			return
		}
		if err != nil {
			time.Sleep(time.Millisecond)
		}
	}
}

func (s *Service) writeLoop(ctx context.Context) error {
	for {
		msg, err := s.sys.Recv(ctx, kernel.EPConsoleOut)
		if err != nil {
			return err
		}
		if msg.Kind != kernel.MsgSerialWrite || msg.Len == 0 {
			continue
		}
		if _, err := s.serial.Write(msg.Payload()); err != nil {
			s.log.Printf("write: %v", err)
		}
	}
}

// maxPoll bounds the console work done in one control iteration.
const maxPoll = 4

// Port is the control-context end of the console.
type Port struct {
	sys *kernel.System
}

func NewPort(sys *kernel.System) *Port { return &Port{sys: sys} }

// Write queues p for the serial writer. Output that does not fit in the
// mailbox is dropped; Write always reports success.
func (p *Port) Write(b []byte) (int, error) {
	for rest := b; len(rest) > 0; {
		chunk := rest
		if len(chunk) > kernel.MaxMessageBytes {
			chunk = chunk[:kernel.MaxMessageBytes]
		}
		p.sys.TrySend(kernel.EPKernel, kernel.EPConsoleOut, kernel.MsgSerialWrite, chunk)
		rest = rest[len(chunk):]
	}
	return len(b), nil
}

// Poll hands pending input to dst without waiting and returns the number of
// messages delivered.
func (p *Port) Poll(dst io.Writer) int {
	n := 0
	for n < maxPoll {
		msg, ok := p.sys.TryRecv(kernel.EPConsoleIn)
		if !ok {
			break
		}
		n++
		if msg.Kind != kernel.MsgSerialData {
			continue
		}
		_, _ = dst.Write(msg.Payload())
	}
	return n
}
