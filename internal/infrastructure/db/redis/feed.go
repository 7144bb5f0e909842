package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/arabemerge/helpdesk/internal/core/ports"
)

const changeChannel = "helpdesk:changes"

// ChangeFeed carries change events between instances over Redis pub/sub.
// Writers publish after every committed write; each instance's realtime hub
// consumes the channel and recomputes affected subscriptions.
type ChangeFeed struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewChangeFeed(client *redis.Client, log zerolog.Logger) *ChangeFeed {
	return &ChangeFeed{client: client, log: log}
}

// Publish sends one change event. Publishing is fire-and-forget: a lost
// event delays a snapshot until the next change, it never corrupts state,
// so failures are logged and not propagated to the write path.
func (f *ChangeFeed) Publish(event ports.ChangeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		f.log.Error().Err(err).Msg("marshal change event")
		return
	}
	if err := f.client.Publish(context.Background(), changeChannel, payload).Err(); err != nil {
		f.log.Warn().Err(err).Str("collection", event.Collection).Msg("publish change event failed")
	}
}

// Run subscribes to the change channel and invokes handler for each event
// until ctx is cancelled.
func (f *ChangeFeed) Run(ctx context.Context, handler func(ports.ChangeEvent)) {
	sub := f.client.Subscribe(ctx, changeChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event ports.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				f.log.Warn().Err(err).Str("payload", msg.Payload).Msg("bad change event payload")
				continue
			}
			handler(event)
		}
	}
}
