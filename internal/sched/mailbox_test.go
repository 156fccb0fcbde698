package sched

import (
	"context"
	"testing"
	"time"

	"github.com/ehrlich-b/sutra-kernel/internal/constants"
	"github.com/stretchr/testify/assert"
)

func TestMailboxSendTryReceive(t *testing.T) {
	m := newMailbox(constants.MailboxCapacity)
	_, ok := m.TryReceive()
	assert.False(t, ok)

	msg := Message{SenderID: 7}
	msg.Payload[0] = 0x42
	assert.NoError(t, m.Send(msg))
	assert.Equal(t, 1, m.Len())

	got, ok := m.TryReceive()
	assert.True(t, ok)
	assert.Equal(t, AgentID(7), got.SenderID)
	assert.Equal(t, byte(0x42), got.Payload[0])
	assert.Equal(t, 0, m.Len())
}

func TestMailboxFullReturnsError(t *testing.T) {
	m := newMailbox(constants.MailboxCapacity)
	for i := 0; i < constants.MailboxCapacity; i++ {
		assert.NoError(t, m.Send(Message{SenderID: AgentID(i)}))
	}
	err := m.Send(Message{SenderID: 999})
	assert.ErrorIs(t, err, ErrMailboxFull)
}

func TestMailboxReceiveBlocksUntilSend(t *testing.T) {
	m := newMailbox(constants.MailboxCapacity)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result := make(chan Message, 1)
	go func() {
		msg, err := m.Receive(ctx)
		if err == nil {
			result <- msg
		}
	}()

	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, m.Send(Message{SenderID: 3}))

	select {
	case msg := <-result:
		assert.Equal(t, AgentID(3), msg.SenderID)
	case <-time.After(time.Second):
		t.Fatal("receive never unblocked")
	}
}

func TestMailboxReceiveCancelled(t *testing.T) {
	m := newMailbox(constants.MailboxCapacity)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := m.Receive(ctx)
	assert.Error(t, err)
}

func TestMailboxDrain(t *testing.T) {
	m := newMailbox(constants.MailboxCapacity)
	assert.NoError(t, m.Send(Message{SenderID: 1}))
	m.Drain()
	assert.Equal(t, 0, m.Len())
}
