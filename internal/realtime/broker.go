package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel is the Redis pub/sub channel all API instances share.
const Channel = "payroll:realtime:changes"

// Publisher announces committed changes.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

// RedisBroker publishes changes to Redis so every instance's Relay sees them.
type RedisBroker struct {
	rdb *redis.Client
}

func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{rdb: rdb}
}

func (b *RedisBroker) Publish(ctx context.Context, change Change) error {
	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, Channel, data).Err()
}

// HubPublisher publishes straight into a local hub. Used when Redis is not
// configured and in tests.
type HubPublisher struct {
	hub *Hub
}

func NewHubPublisher(hub *Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(_ context.Context, change Change) error {
	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now().UTC()
	}
	p.hub.Publish(change)
	return nil
}

// Relay forwards Redis messages into the local hub.
type Relay struct {
	rdb    *redis.Client
	hub    *Hub
	logger *zap.Logger
}

func NewRelay(rdb *redis.Client, hub *Hub, logger ...*zap.Logger) *Relay {
	l := zap.L().Named("realtime.relay")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("realtime.relay")
	}
	return &Relay{rdb: rdb, hub: hub, logger: l}
}

// Run blocks until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	sub := r.rdb.Subscribe(ctx, Channel)
	defer sub.Close()

	r.logger.Info("realtime relay started", zap.String("channel", Channel))
	msgs := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("realtime relay stopped")
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			r.dispatch(msg.Payload)
		}
	}
}

func (r *Relay) dispatch(payload string) {
	var change Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		r.logger.Warn("decode realtime change failed", zap.Error(err))
		return
	}
	r.hub.Publish(change)
}
