package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	internal "github.com/jovitools/portal/internal"
	"github.com/redis/go-redis/v9"
)

// heartbeatInterval is how often a tracker re-announces itself. The
// re-announce doubles as the repair mechanism for missed joins.
const heartbeatInterval = 30 * time.Second

// Subscriber listens on the presence channel and folds every message into
// the aggregator. It never publishes.
type Subscriber struct {
	client  *redis.Client
	channel string
	agg     *Aggregator
	logger  *slog.Logger
}

func NewSubscriber(client *redis.Client, channel string, agg *Aggregator, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		client:  client,
		channel: channel,
		agg:     agg,
		logger:  logger,
	}
}

// Run blocks consuming channel messages until the context is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	// Force the subscription before consuming so a publish racing with
	// startup is not silently lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}

	s.logger.Info("presence subscriber started", "channel", s.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				s.logger.Warn("discarding malformed presence message", "error", err)
				continue
			}
			s.agg.Apply(msg)
		}
	}
}

// Tracker announces one member's own presence: join on start, periodic
// re-announce while running, leave on stop.
type Tracker struct {
	client  *redis.Client
	channel string
	record  Record
	logger  *slog.Logger
}

func NewTracker(client *redis.Client, channel string, record Record, logger *slog.Logger) *Tracker {
	return &Tracker{
		client:  client,
		channel: channel,
		record:  record,
		logger:  logger,
	}
}

// Run announces joining, heartbeats until the context is cancelled, then
// announces leaving. The leave uses a fresh context because the caller's is
// already done.
func (t *Tracker) Run(ctx context.Context) error {
	if err := t.publish(ctx, KindJoin); err != nil {
		return fmt.Errorf("failed to announce join: %w", err)
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			leaveCtx, cancel := internal.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := t.publish(leaveCtx, KindLeave); err != nil {
				t.logger.Warn("failed to announce leave", "user_id", t.record.UserID, "error", err)
			}
			return ctx.Err()
		case <-ticker.C:
			if err := t.publish(ctx, KindJoin); err != nil {
				t.logger.Warn("presence heartbeat failed", "user_id", t.record.UserID, "error", err)
			}
		}
	}
}

func (t *Tracker) publish(ctx context.Context, kind string) error {
	payload, err := json.Marshal(Message{Kind: kind, Records: []Record{t.record}})
	if err != nil {
		return err
	}
	return t.client.Publish(ctx, t.channel, payload).Err()
}
