package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/mmynk/tabie/internal/metrics"
	"github.com/mmynk/tabie/internal/models"
)

const (
	keyPrefix = "tabie:"

	// maxUpdateAttempts bounds optimistic retries when another writer
	// touches the same tab between WATCH and EXEC.
	maxUpdateAttempts = 10
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps tab documents as JSON strings in Redis and announces every
// write on a per-tab pub/sub channel, so server instances sharing one Redis
// see each other's writes.
type RedisStore struct {
	client *redis.Client
	hub    *Hub
}

// NewRedis returns a store backed by client. The store owns the client.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, hub: NewHub()}
}

func tabKey(tabID string) string { return keyPrefix + "tab:" + tabID }

func creatorKey(userID string) string { return keyPrefix + "creator:" + userID }

func channelKey(tabID string) string { return keyPrefix + "tab:" + tabID + ":changes" }

// Create stores a new tab document.
func (s *RedisStore) Create(ctx context.Context, tab *models.Tab) error {
	Prepare(tab, time.Now().UTC())

	doc, err := json.Marshal(tab)
	if err != nil {
		return fmt.Errorf("failed to encode tab: %w", err)
	}

	ok, err := s.client.SetNX(ctx, tabKey(tab.ID), doc, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to store tab: %w", err)
	}
	if !ok {
		return fmt.Errorf("tab %s already exists", tab.ID)
	}
	if tab.CreatedBy != "" {
		err = s.client.ZAdd(ctx, creatorKey(tab.CreatedBy), redis.Z{
			Score:  float64(tab.CreatedAt.UnixNano()),
			Member: tab.ID,
		}).Err()
		if err != nil {
			return fmt.Errorf("failed to index tab: %w", err)
		}
	}

	metrics.DocumentWrites.WithLabelValues("redis", "create").Inc()
	s.announce(ctx, tab.ID, doc)
	return nil
}

// Get returns the latest snapshot of a tab.
func (s *RedisStore) Get(ctx context.Context, tabID string) (*models.Tab, error) {
	data, err := s.client.Get(ctx, tabKey(tabID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, tabID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tab: %w", err)
	}
	return decodeTab(data)
}

// Update replaces the given fields under WATCH, retrying when another writer
// commits in between.
func (s *RedisStore) Update(ctx context.Context, tabID string, f Fields) (*models.Tab, error) {
	key := tabKey(tabID)

	var (
		updated *models.Tab
		doc     []byte
	)
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", ErrNotFound, tabID)
		}
		if err != nil {
			return fmt.Errorf("failed to get tab: %w", err)
		}
		tab, err := decodeTab(data)
		if err != nil {
			return err
		}
		f.Apply(tab, time.Now().UTC())

		doc, err = json.Marshal(tab)
		if err != nil {
			return fmt.Errorf("failed to encode tab: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, doc, 0)
			return nil
		})
		updated = tab
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}

		for _, name := range f.Names() {
			metrics.DocumentWrites.WithLabelValues("redis", name).Inc()
		}
		s.announce(ctx, tabID, doc)
		return updated, nil
	}
	return nil, fmt.Errorf("failed to update tab %s: too many concurrent writers", tabID)
}

// Delete removes a tab document.
func (s *RedisStore) Delete(ctx context.Context, tabID string) error {
	tab, err := s.Get(ctx, tabID)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, tabKey(tabID))
		if tab.CreatedBy != "" {
			pipe.ZRem(ctx, creatorKey(tab.CreatedBy), tabID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete tab: %w", err)
	}

	metrics.DocumentWrites.WithLabelValues("redis", "delete").Inc()
	s.announce(ctx, tabID, nil)
	return nil
}

// ListByCreator returns the tabs created by userID, newest first.
func (s *RedisStore) ListByCreator(ctx context.Context, userID string) ([]*models.Tab, error) {
	ids, err := s.client.ZRevRange(ctx, creatorKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tabs: %w", err)
	}
	tabs := []*models.Tab{}
	if len(ids) == 0 {
		return tabs, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = tabKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load tabs: %w", err)
	}
	for _, v := range values {
		data, ok := v.(string)
		if !ok {
			continue
		}
		tab, err := decodeTab([]byte(data))
		if err != nil {
			return nil, err
		}
		tabs = append(tabs, tab)
	}
	return tabs, nil
}

// Subscribe listens on the tab's change channel. The subscription is
// confirmed before the current snapshot is read, so no write is missed.
func (s *RedisStore) Subscribe(ctx context.Context, tabID string, fn func(*models.Tab)) (func(), error) {
	pubsub := s.client.Subscribe(ctx, channelKey(tabID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	offer, cancel := s.hub.Subscribe(tabID, fn)
	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			pubsub.Close()
		})
	}

	current, err := s.Get(ctx, tabID)
	switch {
	case errors.Is(err, ErrNotFound):
		offer(nil)
	case err != nil:
		stop()
		return nil, err
	default:
		offer(current)
	}

	go func() {
		for msg := range pubsub.Channel() {
			if msg.Payload == "" {
				offer(nil)
				continue
			}
			tab, err := decodeTab([]byte(msg.Payload))
			if err != nil {
				slog.Warn("Dropping undecodable tab change", "tab_id", tabID, "error", err)
				continue
			}
			offer(tab)
		}
	}()

	after := context.AfterFunc(ctx, stop)
	return func() {
		after()
		stop()
	}, nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// announce publishes the new document, or an empty payload for a delete.
// Publish failures are logged, not returned.
func (s *RedisStore) announce(ctx context.Context, tabID string, doc []byte) {
	if err := s.client.Publish(ctx, channelKey(tabID), doc).Err(); err != nil {
		slog.Warn("Failed to publish tab change", "tab_id", tabID, "error", err)
	}
}

func decodeTab(data []byte) (*models.Tab, error) {
	tab := &models.Tab{}
	if err := json.Unmarshal(data, tab); err != nil {
		return nil, fmt.Errorf("failed to decode tab: %w", err)
	}
	tab.Normalize()
	return tab, nil
}
