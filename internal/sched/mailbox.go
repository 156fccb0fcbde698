package sched

import (
	"context"
	"errors"
	"sync"

	"github.com/ehrlich-b/sutra-kernel/internal/constants"
)

// ErrMailboxFull is returned by Send when the target's inbox has no
// free slots. The ipc_send syscall reports it as SyscallErr.
var ErrMailboxFull = errors.New("sched: mailbox full")

// Message is one IPC message: a fixed payload plus the sender's id,
// matching the wire shape of a mailbox slot.
type Message struct {
	SenderID AgentID
	Payload  [constants.MessagePayloadSize]byte
}

// Mailbox is a bounded per-agent FIFO. Send fails closed when full
// rather than blocking the sender, since the sender may itself be a
// kernel agent that must never block on a user agent's inbox.
type Mailbox struct {
	mu      sync.Mutex
	buf     []Message
	head    int
	count   int
	notify  chan struct{}
	waiting bool
}

func newMailbox(capacity int) *Mailbox {
	if capacity <= 0 {
		capacity = constants.MailboxCapacity
	}
	return &Mailbox{
		buf:    make([]Message, capacity),
		notify: make(chan struct{}, 1),
	}
}

// Send enqueues msg, returning an error coded MailboxFull if the
// mailbox has no free slots.
func (m *Mailbox) Send(msg Message) error {
	m.mu.Lock()
	if m.count >= len(m.buf) {
		m.mu.Unlock()
		return ErrMailboxFull
	}
	tail := (m.head + m.count) % len(m.buf)
	m.buf[tail] = msg
	m.count++
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
	return nil
}

// TryReceive dequeues the oldest message without blocking. ok is false
// if the mailbox is empty.
func (m *Mailbox) TryReceive() (Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dequeueLocked()
}

func (m *Mailbox) dequeueLocked() (Message, bool) {
	if m.count == 0 {
		return Message{}, false
	}
	msg := m.buf[m.head]
	m.head = (m.head + 1) % len(m.buf)
	m.count--
	return msg, true
}

// Receive blocks until a message is available or ctx is cancelled.
func (m *Mailbox) Receive(ctx context.Context) (Message, error) {
	for {
		if msg, ok := m.TryReceive(); ok {
			return msg, nil
		}
		select {
		case <-m.notify:
			continue
		case <-ctx.Done():
			return Message{}, ctx.Err()
		}
	}
}

// Len reports the number of queued messages.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Drain discards all pending messages, used when an agent holding
// messages is killed.
func (m *Mailbox) Drain() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.head, m.count = 0, 0
}
