package kernel

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

// MaxMessageBytes is the maximum payload size for IPC messages.
//
// Payloads are console fragments and log lines, never bulk sample data.
const MaxMessageBytes = 120

// Message is a fixed-size message envelope.
type Message struct {
	From Endpoint
	To   Endpoint
	Kind uint8
	Len  uint16
	Data [MaxMessageBytes]byte
}

// Payload returns the used part of Data.
func (m *Message) Payload() []byte {
	n := int(m.Len)
	if n > MaxMessageBytes {
		n = MaxMessageBytes
	}
	return m.Data[:n]
}

const (
	MsgLog uint8 = iota + 1
	MsgSerialData
	MsgSerialWrite
)

const mailboxSlots = 32

// spinsBeforeSleep bounds how long Recv busy-yields before backing off to
// millisecond sleeps.
const spinsBeforeSleep = 64

type mailboxSlot struct {
	// seq is stored relative to the slot index so the zero value is ready:
	// the logical sequence is seq + index. A slot is free for position p when
	// its sequence equals p and holds a message for p when it equals p+1.
	seq atomic.Uint32
	msg Message
}

// Mailbox is a fixed-size multi-producer, single-consumer queue.
// It is designed for bare-metal use: no allocations and no locks. The message
// is copied into its slot before the slot is published to the consumer.
type Mailbox struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	slots [mailboxSlots]mailboxSlot
}

func slotIndex(pos uint32) uint32 { return pos % mailboxSlots }

// TrySend attempts to enqueue a message, returning false if the mailbox is full.
func (mb *Mailbox) TrySend(msg Message) bool {
	for {
		pos := mb.head.Load()
		idx := slotIndex(pos)
		s := &mb.slots[idx]
		seq := s.seq.Load() + idx

		switch diff := int32(seq - pos); {
		case diff == 0:
			if !mb.head.CompareAndSwap(pos, pos+1) {
				continue
			}
			s.msg = msg
			s.seq.Store(pos + 1 - idx)
			return true
		case diff < 0:
			return false
		}
		// Another producer claimed pos; reload.
	}
}

// Send enqueues a message, blocking until it succeeds.
func (mb *Mailbox) Send(msg Message) {
	for !mb.TrySend(msg) {
		runtime.Gosched()
	}
}

// TryRecv attempts to dequeue one message, returning false if empty.
// Only one goroutine may receive from a mailbox.
func (mb *Mailbox) TryRecv() (Message, bool) {
	pos := mb.tail.Load()
	idx := slotIndex(pos)
	s := &mb.slots[idx]
	seq := s.seq.Load() + idx
	if int32(seq-(pos+1)) < 0 {
		return Message{}, false
	}

	msg := s.msg
	s.seq.Store(pos + mailboxSlots - idx)
	mb.tail.Store(pos + 1)
	return msg, true
}

// Len returns the number of queued messages (approximate under contention).
func (mb *Mailbox) Len() int {
	n := int32(mb.head.Load() - mb.tail.Load())
	if n < 0 {
		return 0
	}
	return int(n)
}

// Recv blocks until one message is available or ctx is done.
func (mb *Mailbox) Recv(ctx context.Context) (Message, error) {
	spins := 0
	for {
		msg, ok := mb.TryRecv()
		if ok {
			return msg, nil
		}
		if err := ctx.Err(); err != nil {
			return Message{}, err
		}
		if spins < spinsBeforeSleep {
			spins++
			runtime.Gosched()
			continue
		}
		time.Sleep(time.Millisecond)
	}
}
