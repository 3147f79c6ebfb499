package guestcart

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amiraesya/glowmart-golang/internal/models"
)

// Guest carts are kept out of MySQL entirely: shoppers without an account
// get a Redis hash keyed by an opaque session id, mapping product id to
// quantity. At sign-in the hash is merged into the user's real cart and
// deleted. Entries expire on their own if the visitor never returns.

const keyPrefix = "guest_cart:"

// Store is the Redis-backed guest cart.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: 30 * 24 * time.Hour}
}

func cartKey(sessionID string) string {
	return keyPrefix + sessionID
}

// Add increments the quantity for the product and refreshes the TTL.
func (s *Store) Add(ctx context.Context, sessionID, productID string, qty int) error {
	key := cartKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, key, productID, int64(qty))
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("guest cart add: %w", err)
	}
	return nil
}

// SetQuantity sets the absolute quantity; 0 or less removes the entry.
func (s *Store) SetQuantity(ctx context.Context, sessionID, productID string, qty int) error {
	key := cartKey(sessionID)
	if qty <= 0 {
		if err := s.client.HDel(ctx, key, productID).Err(); err != nil {
			return fmt.Errorf("guest cart remove: %w", err)
		}
		return nil
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, productID, qty)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("guest cart set: %w", err)
	}
	return nil
}

// Items returns the guest cart lines sorted by product id, matching the
// deterministic merge order the cart manager expects.
func (s *Store) Items(ctx context.Context, sessionID string) ([]models.GuestItem, error) {
	raw, err := s.client.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("guest cart read: %w", err)
	}

	items := make([]models.GuestItem, 0, len(raw))
	for productID, qtyStr := range raw {
		qty, err := strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			continue
		}
		items = append(items, models.GuestItem{ProductID: productID, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items, nil
}

// Clear discards the guest cart, typically right after a merge.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("guest cart clear: %w", err)
	}
	return nil
}
