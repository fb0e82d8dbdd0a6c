package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/fabvote/fabvote-gateway"
	"github.com/fabvote/fabvote-gateway/internal/domain"
)

func TestForwardSkipsUndecodablePayloads(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages := make(chan *redis.Message, 2)
	messages <- &redis.Message{Channel: domain.EventChannel, Payload: "not json"}
	messages <- &redis.Message{Channel: domain.EventChannel, Payload: `{"type":"vote.casted","transaction":"VoteCasting","electionID":"e1"}`}

	output := make(chan fabvote.Event)
	done := make(chan struct{})
	go func() {
		forward(ctx, messages, output)
		close(done)
	}()

	select {
	case event := <-output:
		require.Equal(t, domain.EventVoteCasted, event.Type)
		require.Equal(t, "e1", event.ElectionID)
	case <-time.After(time.Second):
		t.Fatal("event was not forwarded")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forward did not stop on cancel")
	}
}

func TestForwardStopsWhenBusCloses(t *testing.T) {
	messages := make(chan *redis.Message)
	close(messages)

	done := make(chan struct{})
	go func() {
		forward(context.Background(), messages, make(chan fabvote.Event))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forward did not stop when the subscription closed")
	}
}

func TestForwardStopsWhileBlockedOnOutput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	messages := make(chan *redis.Message, 1)
	messages <- &redis.Message{Payload: `{"type":"election.created"}`}

	done := make(chan struct{})
	go func() {
		forward(ctx, messages, make(chan fabvote.Event))
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forward blocked after cancel")
	}
}
