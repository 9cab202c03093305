package redisstore

// Package redisstore provides a Redis-backed WatchableStore for deployments
// where several processes share one session (the multi-tab case). Mutations
// are published on a pub/sub channel so every other subscriber observes the
// change; the publisher's origin ID lets subscribers skip their own writes.

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dlretail/sessiongate/internal/ports"
)

// Ensure compile-time conformance to ports.
var _ ports.WatchableStore = (*Store)(nil)

// Store is a Redis-based key/value store with change notification.
type Store struct {
	client  redis.UniversalClient
	prefix  string
	channel string
	origin  string
	logger  *slog.Logger
}

// Options configures a Store.
type Options struct {
	// Prefix namespaces every key; defaults to "sessiongate:".
	Prefix string
	Logger *slog.Logger
}

// New creates a Store on top of an existing Redis client.
func New(client redis.UniversalClient, opts Options) *Store {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "sessiongate:"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client:  client,
		prefix:  prefix,
		channel: prefix + "changes",
		origin:  uuid.NewString(),
		logger:  logger,
	}
}

// Origin returns the identifier stamped on changes made through this store.
func (s *Store) Origin() string { return s.origin }

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	s.publish(ctx, ports.Change{Key: key, Value: value, Origin: s.origin})
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	s.publish(ctx, ports.Change{Key: key, Origin: s.origin})
	return nil
}

// Subscribe listens on the change channel until ctx is canceled or the
// returned unsubscribe function is called.
func (s *Store) Subscribe(ctx context.Context, fn func(ports.Change)) (func(), error) {
	pubsub := s.client.Subscribe(ctx, s.channel)
	// Force the subscription to be established before returning so callers
	// never miss changes made right after Subscribe.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		for msg := range pubsub.Channel() {
			var change ports.Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				s.logger.Warn("dropping malformed change notification", "error", err)
				continue
			}
			fn(change)
		}
	}()

	return func() {
		if err := pubsub.Close(); err != nil {
			s.logger.Warn("close change subscription failed", "error", err)
		}
	}, nil
}

// publish is best-effort: a failed notification leaves other tabs stale until
// their next load, never inconsistent, so it is logged and not returned.
func (s *Store) publish(ctx context.Context, change ports.Change) {
	payload, err := json.Marshal(change)
	if err != nil {
		s.logger.Warn("encode change notification failed", "key", change.Key, "error", err)
		return
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		s.logger.Warn("publish change notification failed", "key", change.Key, "error", err)
	}
}
