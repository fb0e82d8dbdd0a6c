package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/fabvote/fabvote-gateway"
	"github.com/fabvote/fabvote-gateway/internal/domain"
)

type SignalService struct {
	rdb     *redis.Client
	channel string
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb:     redisClient,
		channel: domain.EventChannel,
	}
}

func (s *SignalService) Publish(ctx context.Context, event fabvote.Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, s.channel, jsonstr).Err()
	if err != nil {
		return err

	}

	return nil
}

// Realtime forwards events from the bus to output until ctx is done.
func (s *SignalService) Realtime(ctx context.Context, output chan<- fabvote.Event) {
	pubsub := s.rdb.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	forward(ctx, pubsub.Channel(), output)
}

// forward decodes bus messages into output. Undecodable payloads are
// logged and skipped.
func forward(ctx context.Context, messages <-chan *redis.Message, output chan<- fabvote.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event fabvote.Event
			err := json.Unmarshal([]byte(msg.Payload), &event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error decoding event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
