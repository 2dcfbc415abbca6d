package wishlist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// CloudBackend persists the wishlist in redis: one hash per user keyed by
// gameID with JSON documents as values, a preferences key, and a pub/sub
// channel carrying a notification on every mutation. Subscribers always
// receive the full list, never a delta.
type CloudBackend struct {
	client *redis.Client
	userID string
	log    *slog.Logger

	mu      sync.Mutex
	pubsubs []*redis.PubSub
}

// NewCloudBackend connects to redis and verifies the connection
func NewCloudBackend(ctx context.Context, addr, userID string, log *slog.Logger) (*CloudBackend, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &CloudBackend{
		client: client,
		userID: userID,
		log:    log,
	}, nil
}

func (b *CloudBackend) itemsKey() string {
	return "wishlist:" + b.userID
}

func (b *CloudBackend) prefsKey() string {
	return "prefs:" + b.userID
}

func (b *CloudBackend) channel() string {
	return "wishlist:" + b.userID + ":events"
}

// Close tears down all live subscriptions and the connection
func (b *CloudBackend) Close() error {
	b.mu.Lock()
	for _, ps := range b.pubsubs {
		ps.Close()
	}
	b.pubsubs = nil
	b.mu.Unlock()

	return b.client.Close()
}

// Load returns the full persisted wishlist
func (b *CloudBackend) Load(ctx context.Context) ([]Item, error) {
	docs, err := b.client.HGetAll(ctx, b.itemsKey()).Result()
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(docs))
	for gameID, doc := range docs {
		var it Item
		if err := json.Unmarshal([]byte(doc), &it); err != nil {
			b.log.Warn("skipping malformed wishlist document", "game_id", gameID, "error", err)
			continue
		}
		items = append(items, it)
	}

	sortItems(items)
	return items, nil
}

// Put writes an item document and notifies subscribers
func (b *CloudBackend) Put(ctx context.Context, item Item) error {
	doc, err := json.Marshal(item)
	if err != nil {
		return err
	}

	if err := b.client.HSet(ctx, b.itemsKey(), item.GameID, string(doc)).Err(); err != nil {
		return err
	}

	b.publish(ctx, "put", item.GameID)
	return nil
}

// Delete removes an item document and notifies subscribers
func (b *CloudBackend) Delete(ctx context.Context, gameID string) error {
	if err := b.client.HDel(ctx, b.itemsKey(), gameID).Err(); err != nil {
		return err
	}

	b.publish(ctx, "delete", gameID)
	return nil
}

func (b *CloudBackend) publish(ctx context.Context, op, gameID string) {
	if err := b.client.Publish(ctx, b.channel(), op+":"+gameID).Err(); err != nil {
		b.log.Warn("publish wishlist event", "op", op, "game_id", gameID, "error", err)
	}
}

// LoadPreferences returns the saved preference document
func (b *CloudBackend) LoadPreferences(ctx context.Context) (*Preferences, error) {
	doc, err := b.client.Get(ctx, b.prefsKey()).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var prefs Preferences
	if err := json.Unmarshal([]byte(doc), &prefs); err != nil {
		return nil, err
	}

	return &prefs, nil
}

// SavePreferences persists the preference document
func (b *CloudBackend) SavePreferences(ctx context.Context, prefs *Preferences) error {
	doc, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return b.client.Set(ctx, b.prefsKey(), string(doc), 0).Err()
}

// Subscribe starts a receive loop on the user's change channel. Every
// notification triggers a fresh Load; the callback gets the resulting
// snapshot as a full replacement. The returned func stops the loop.
func (b *CloudBackend) Subscribe(ctx context.Context, fn func([]Item)) (func(), error) {
	pubsub := b.client.Subscribe(ctx, b.channel())

	// Confirm subscription before returning
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	b.mu.Lock()
	b.pubsubs = append(b.pubsubs, pubsub)
	b.mu.Unlock()

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			msg, err := pubsub.ReceiveMessage(loopCtx)
			if err != nil {
				if loopCtx.Err() != nil {
					return
				}
				b.log.Error("receive wishlist event", "error", err)
				return
			}

			items, err := b.Load(loopCtx)
			if err != nil {
				b.log.Error("reload wishlist after event", "event", msg.Payload, "error", err)
				continue
			}

			fn(items)
		}
	}()

	unsubscribe := func() {
		cancel()
		pubsub.Close()
		<-done

		b.mu.Lock()
		for i, ps := range b.pubsubs {
			if ps == pubsub {
				b.pubsubs = append(b.pubsubs[:i], b.pubsubs[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
	}

	return unsubscribe, nil
}
