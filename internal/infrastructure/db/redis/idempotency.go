package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/exercisetracker/exercise-tracker/internal/core/ports"
)

const (
	defaultReplayTTL = 24 * time.Hour
	// claimTTL bounds how long a crashed request can hold a key.
	claimTTL = 30 * time.Second

	pendingMarker = "pending"
)

// ExerciseReplayStore remembers the result of an exercise submission under
// its Idempotency-Key so a retried request does not append twice. A key is
// first claimed with a pending marker via SET NX, then overwritten with the
// JSON result once the entry is stored.
// Key format: idempotency:exercise:<user_id>:<key>
type ExerciseReplayStore struct {
	client   *redis.Client
	ttl      time.Duration
	claimTTL time.Duration
}

// NewExerciseReplayStore wraps client. A non-positive ttl uses defaultReplayTTL.
func NewExerciseReplayStore(client *redis.Client, ttl time.Duration) *ExerciseReplayStore {
	if ttl <= 0 {
		ttl = defaultReplayTTL
	}
	return &ExerciseReplayStore{client: client, ttl: ttl, claimTTL: min(claimTTL, ttl)}
}

// Lookup returns the stored result, or nil when the key has not been seen or
// is still pending.
func (s *ExerciseReplayStore) Lookup(ctx context.Context, userID, key string) (*ports.ExerciseResult, error) {
	b, err := s.client.Get(ctx, replayKey(userID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}
	return decodeResult(b)
}

// Claim reserves key for the caller. It reports false when the key is
// already pending or answered.
func (s *ExerciseReplayStore) Claim(ctx context.Context, userID, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, replayKey(userID, key), pendingMarker, s.claimTTL).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency claim: %w", err)
	}
	return ok, nil
}

// Release drops a pending claim so the key can be retried.
func (s *ExerciseReplayStore) Release(ctx context.Context, userID, key string) error {
	if err := s.client.Del(ctx, replayKey(userID, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func decodeResult(b []byte) (*ports.ExerciseResult, error) {
	if string(b) == pendingMarker {
		return nil, nil
	}

	var result ports.ExerciseResult
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &result, nil
}

// Remember replaces the caller's claim with result for the full ttl.
func (s *ExerciseReplayStore) Remember(ctx context.Context, userID, key string, result *ports.ExerciseResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if err := s.client.Set(ctx, replayKey(userID, key), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func replayKey(userID, key string) string {
	return fmt.Sprintf("idempotency:exercise:%s:%s", userID, key)
}
