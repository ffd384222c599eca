// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueueName is the Redis list that match lifecycle records are
// pushed onto for the external stats consumer.
const DefaultQueueName = "duelyard_match_events"

// MatchEventRecord is one entry on the match-event feed. Payload carries
// event-specific fields (scores, damage, winner, ...).
type MatchEventRecord struct {
	EventType   string                 `json:"event_type"`
	RoomID      int64                  `json:"room_id"`
	ActorUserID int64                  `json:"actor_user_id,omitempty"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   int64                  `json:"timestamp"`
}

// Feed publishes match lifecycle records to a Redis list. A nil *Feed (or a
// Feed constructed without an address) disables publishing entirely, so
// callers never have to branch on configuration.
type Feed struct {
	rdb   *redis.Client
	queue string
	log   *logrus.Logger
}

// NewFeed connects to Redis and verifies the connection. An empty addr
// returns a disabled feed and no error.
func NewFeed(addr string, log *logrus.Logger) (*Feed, error) {
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return &Feed{rdb: rdb, queue: DefaultQueueName, log: log}, nil
}

// Publish serializes the record and pushes it onto the feed queue.
// Fire-and-forget: errors are logged, never returned to game logic.
func (f *Feed) Publish(record MatchEventRecord) {
	if f == nil {
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		f.log.Warnf("failed to marshal match event %s: %v", record.EventType, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := f.rdb.RPush(ctx, f.queue, data).Err(); err != nil {
		f.log.Warnf("failed to push match event %s to %s: %v", record.EventType, f.queue, err)
	}
}

// Close releases the underlying client.
func (f *Feed) Close() error {
	if f == nil {
		return nil
	}
	return f.rdb.Close()
}
