package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/childcare-cover-api/internal/models"
)

// ErrSlotLocked signals that another assignment for the same substitute and
// slot is in flight.
var ErrSlotLocked = errors.New("slot lock already held")

// SlotLockService narrows the check-then-insert race window with short-TTL
// redis locks per (sub, date, time slot). It is a fast path only; the
// database unique index remains the authoritative guard.
type SlotLockService struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSlotLockService constructs the lock service.
func NewSlotLockService(client *redis.Client, ttl time.Duration) *SlotLockService {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &SlotLockService{client: client, ttl: ttl}
}

// Acquire takes one lock per slot key. On any contention every lock taken so
// far is released and ErrSlotLocked is returned. A nil service is a no-op so
// deployments without redis keep working.
func (s *SlotLockService) Acquire(ctx context.Context, subID string, keys []models.ShiftKey) (func(), error) {
	if s == nil || s.client == nil {
		return func() {}, nil
	}

	acquired := make([]string, 0, len(keys))
	release := func() {
		if len(acquired) == 0 {
			return
		}
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.client.Del(releaseCtx, acquired...).Err()
	}

	for _, key := range keys {
		lockKey := slotLockKey(subID, key)
		ok, err := s.client.SetNX(ctx, lockKey, "1", s.ttl).Result()
		if err != nil {
			release()
			return nil, fmt.Errorf("acquire slot lock %s: %w", lockKey, err)
		}
		if !ok {
			release()
			return nil, ErrSlotLocked
		}
		acquired = append(acquired, lockKey)
	}
	return release, nil
}

func slotLockKey(subID string, key models.ShiftKey) string {
	return fmt.Sprintf("cover:slot:%s:%s:%s", subID, key.Date, key.TimeSlotID)
}
