package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/exercisetracker/exercise-tracker/internal/api/metrics"
	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
	"github.com/exercisetracker/exercise-tracker/internal/core/ports"
)

// ReplayStore abstracts the idempotency store (Redis). Lookup returns a nil
// result on a miss or while the key is only claimed. Claim reserves a key for
// a single in-flight request and reports false when it is already taken.
// Remember replaces the claim with the final result; Release drops a claim
// whose request failed.
type ReplayStore interface {
	Lookup(ctx context.Context, userID, key string) (*ports.ExerciseResult, error)
	Claim(ctx context.Context, userID, key string) (bool, error)
	Remember(ctx context.Context, userID, key string, result *ports.ExerciseResult) error
	Release(ctx context.Context, userID, key string) error
}

// EventPublisher hands audit events to the background dispatcher. Enqueue
// must not block; it reports false when the event was dropped.
type EventPublisher interface {
	Enqueue(event domain.ExerciseEvent) bool
}

type ExerciseService struct {
	repo      ports.UserRepository
	replay    ReplayStore
	publisher EventPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewExerciseService returns an ExerciseService. replay and publisher are
// optional and may be nil.
func NewExerciseService(repo ports.UserRepository, replay ReplayStore, publisher EventPublisher, log zerolog.Logger) *ExerciseService {
	return &ExerciseService{
		repo:      repo,
		replay:    replay,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Record validates a new entry and appends it to the user's log. No append
// happens on any error path.
func (s *ExerciseService) Record(ctx context.Context, in ports.ExerciseInput) (_ *ports.ExerciseResult, err error) {
	// 1. Replays short-circuit before any validation. A claimed key is held
	// until the entry is remembered, or released on any error.
	claimed, cached, err := s.acquire(ctx, in)
	if err != nil {
		s.reject(err)
		return nil, err
	}
	if cached != nil {
		metrics.IdempotentReplaysTotal.Inc()
		return cached, nil
	}
	if claimed {
		defer func() {
			if err != nil {
				s.release(ctx, in)
			}
		}()
	}

	// 2. Resolve the owner.
	user, err := s.repo.FindByID(ctx, in.UserID)
	if err != nil {
		s.reject(err)
		return nil, fmt.Errorf("record exercise: %w", err)
	}

	// 3. Coerce duration and date.
	duration, ok := domain.ParseDuration(in.Duration)
	if !ok {
		s.reject(domain.ErrInvalidDuration)
		return nil, domain.ErrInvalidDuration
	}
	date, ok := domain.NormalizeDate(in.Date, s.now())
	if !ok {
		s.reject(domain.ErrInvalidDate)
		return nil, domain.ErrInvalidDate
	}

	// 4. Atomic append.
	entry := domain.Exercise{Description: in.Description, Duration: duration, Date: date}
	if err := s.repo.AppendLogEntry(ctx, user.ID, entry); err != nil {
		s.reject(err)
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to append exercise")
		}
		return nil, fmt.Errorf("record exercise: %w", err)
	}
	metrics.ExercisesRecordedTotal.Inc()

	result := &ports.ExerciseResult{
		UserID:      user.ID,
		Username:    user.Username,
		Description: entry.Description,
		Duration:    entry.Duration,
		Date:        entry.Date,
	}

	// 5. Side channels are best effort.
	if claimed {
		if err := s.replay.Remember(ctx, in.UserID, in.IdempotencyKey, result); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to store idempotency result")
			s.release(ctx, in)
		}
	}
	s.publish(user, entry)

	s.log.Info().
		Str("user_id", user.ID).
		Int("duration", entry.Duration).
		Str("date", domain.FormatDate(entry.Date)).
		Msg("exercise recorded")

	return result, nil
}

// acquire resolves the idempotency key before any work is done. It returns
// the stored result of a finished request, claims the key for this one, or
// reports ErrRequestInProgress when a concurrent request holds the claim.
// Store failures degrade to processing without a claim.
func (s *ExerciseService) acquire(ctx context.Context, in ports.ExerciseInput) (bool, *ports.ExerciseResult, error) {
	if in.IdempotencyKey == "" || s.replay == nil {
		return false, nil, nil
	}
	if cached := s.lookupReplay(ctx, in); cached != nil {
		return false, cached, nil
	}

	ok, err := s.replay.Claim(ctx, in.UserID, in.IdempotencyKey)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", in.UserID).Msg("idempotency claim failed, processing anyway")
		return false, nil, nil
	}
	if ok {
		return true, nil, nil
	}

	// Lost the race: the holder may have finished in the meantime.
	if cached := s.lookupReplay(ctx, in); cached != nil {
		return false, cached, nil
	}
	return false, nil, domain.ErrRequestInProgress
}

func (s *ExerciseService) release(ctx context.Context, in ports.ExerciseInput) {
	if err := s.replay.Release(context.WithoutCancel(ctx), in.UserID, in.IdempotencyKey); err != nil {
		s.log.Warn().Err(err).Str("user_id", in.UserID).Msg("failed to release idempotency claim")
	}
}

func (s *ExerciseService) lookupReplay(ctx context.Context, in ports.ExerciseInput) *ports.ExerciseResult {
	cached, err := s.replay.Lookup(ctx, in.UserID, in.IdempotencyKey)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", in.UserID).Msg("idempotency lookup failed, processing anyway")
		return nil
	}
	if cached != nil {
		s.log.Debug().Str("user_id", in.UserID).Str("idempotency_key", in.IdempotencyKey).Msg("idempotent replay")
	}
	return cached
}

func (s *ExerciseService) publish(user *domain.User, entry domain.Exercise) {
	if s.publisher == nil {
		return
	}
	event := domain.ExerciseEvent{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Username:    user.Username,
		Description: entry.Description,
		Duration:    entry.Duration,
		Date:        entry.Date,
		RecordedAt:  s.now().UTC(),
	}
	if !s.publisher.Enqueue(event) {
		s.log.Warn().Str("user_id", user.ID).Msg("audit queue full, event dropped")
	}
}

func (s *ExerciseService) reject(err error) {
	metrics.ExercisesRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return "invalid_id"
	case errors.Is(err, domain.ErrUserNotFound):
		return "unknown_user"
	case errors.Is(err, domain.ErrInvalidDuration):
		return "invalid_duration"
	case errors.Is(err, domain.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, domain.ErrRequestInProgress):
		return "in_progress"
	default:
		return "store_error"
	}
}
