package kernel

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

// System owns the instrument's mailboxes and its millisecond timebase.
type System struct {
	mbox  [endpointCount]Mailbox
	ticks atomic.Uint64

	dropped atomic.Uint32
}

// NewSystem creates a kernel instance.
func NewSystem() *System {
	return &System{}
}

// StartTick starts a 1ms ticker that increments the kernel tick counter until
// ctx is done.
func (s *System) StartTick(ctx context.Context) {
	go func() {
		t := time.NewTicker(1 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.ticks.Add(1)
			}
		}
	}()
}

// Ticks returns the current tick count (1ms per tick).
func (s *System) Ticks() uint64 {
	return s.ticks.Load()
}

// Dropped returns how many TrySend calls found a full mailbox.
func (s *System) Dropped() uint32 {
	return s.dropped.Load()
}

func newMessage(from, to Endpoint, kind uint8, payload []byte) Message {
	var msg Message
	msg.From = from
	msg.To = to
	msg.Kind = kind
	if len(payload) > 0 {
		if len(payload) > MaxMessageBytes {
			payload = payload[:MaxMessageBytes]
		}
		msg.Len = uint16(len(payload))
		copy(msg.Data[:], payload)
	}
	return msg
}

// Send copies the payload into a fixed-size message and enqueues it, waiting
// for room. Only contexts that may block use it.
func (s *System) Send(from, to Endpoint, kind uint8, payload []byte) {
	if !to.Valid() {
		return
	}
	s.mbox[to].Send(newMessage(from, to, kind, payload))
}

// TrySend is the non-blocking form of Send. A full mailbox drops the message.
func (s *System) TrySend(from, to Endpoint, kind uint8, payload []byte) bool {
	if !to.Valid() {
		return false
	}
	if s.mbox[to].TrySend(newMessage(from, to, kind, payload)) {
		return true
	}
	s.dropped.Add(1)
	return false
}

// TryRecv dequeues one message for the endpoint without waiting.
func (s *System) TryRecv(to Endpoint) (Message, bool) {
	if !to.Valid() {
		return Message{}, false
	}
	return s.mbox[to].TryRecv()
}

// Recv blocks until a message is available for the endpoint or ctx is done.
func (s *System) Recv(ctx context.Context, to Endpoint) (Message, error) {
	if !to.Valid() {
		<-ctx.Done()
		return Message{}, ctx.Err()
	}
	return s.mbox[to].Recv(ctx)
}

// Yield yields execution to let other goroutines run.
func (s *System) Yield() {
	runtime.Gosched()
}
