package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	holdKeyPrefix   = "booking:hold:"
	holdIndexPrefix = "wallet:holds:"
)

// RedisHoldStore keeps booking holds in Redis. Each hold is a self-expiring
// record keyed by booking id; a per-user set indexes the bookings so the
// locked amount is recomputed from live holds rather than kept as a counter
// that could drift once holds expire. Index members pointing at expired
// holds are pruned lazily on read.
type RedisHoldStore struct {
	client *redis.Client
}

// NewRedisHoldStore builds a hold store on a connected Redis client.
func NewRedisHoldStore(client *redis.Client) *RedisHoldStore {
	return &RedisHoldStore{client: client}
}

func holdKey(bookingID string) string   { return holdKeyPrefix + bookingID }
func holdIndexKey(userID string) string { return holdIndexPrefix + userID }

// Hold writes the TTL-bounded hold record and indexes it for the user. The
// two writes are individually atomic but not joined: a failure between them
// leaves a live hold missing from the index, which Locked then undercounts
// until the record expires.
func (s *RedisHoldStore) Hold(ctx context.Context, userID, bookingID string, amount int64, ttl time.Duration) error {
	record := HoldRecord{
		BookingID: bookingID,
		UserID:    userID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, holdKey(bookingID), payload, ttl).Err(); err != nil {
		return err
	}
	return s.client.SAdd(ctx, holdIndexKey(userID), bookingID).Err()
}

// Locked sums the user's live holds. Expired holds no longer exist as keys,
// so they stop counting the moment Redis evicts them.
func (s *RedisHoldStore) Locked(ctx context.Context, userID string) (int64, error) {
	members, err := s.client.SMembers(ctx, holdIndexKey(userID)).Result()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, bookingID := range members {
		raw, err := s.client.Get(ctx, holdKey(bookingID)).Result()
		if errors.Is(err, redis.Nil) {
			s.client.SRem(ctx, holdIndexKey(userID), bookingID) // best effort prune
			continue
		}
		if err != nil {
			return 0, err
		}
		var record HoldRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return 0, err
		}
		if record.UserID != userID {
			continue
		}
		total += record.Amount
	}
	return total, nil
}

// Release deletes the hold for bookingID and returns the record it held.
func (s *RedisHoldStore) Release(ctx context.Context, bookingID string) (HoldRecord, error) {
	raw, err := s.client.Get(ctx, holdKey(bookingID)).Result()
	if errors.Is(err, redis.Nil) {
		return HoldRecord{}, ErrHoldNotFound
	}
	if err != nil {
		return HoldRecord{}, err
	}

	var record HoldRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return HoldRecord{}, err
	}

	if err := s.client.Del(ctx, holdKey(bookingID)).Err(); err != nil {
		return HoldRecord{}, err
	}
	s.client.SRem(ctx, holdIndexKey(record.UserID), bookingID) // best effort prune
	return record, nil
}
