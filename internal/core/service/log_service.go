package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/exercisetracker/exercise-tracker/internal/api/metrics"
	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
	"github.com/exercisetracker/exercise-tracker/internal/core/ports"
)

type LogService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewLogService(repo ports.UserRepository, logger zerolog.Logger) *LogService {
	return &LogService{repo: repo, logger: logger}
}

// Query returns a user's log newest first. The from/to range is applied only
// when both bounds parse; a single valid bound is ignored. A valid
// non-negative limit truncates the filtered result.
func (s *LogService) Query(ctx context.Context, in ports.LogQueryInput) (*ports.LogResult, error) {
	user, err := s.repo.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}

	log := make([]domain.Exercise, len(user.Log))
	copy(log, user.Log)
	sortNewestFirst(log)

	from, fromOK := domain.ParseBound(in.From)
	to, toOK := domain.ParseBound(in.To)
	bounded := fromOK && toOK
	if bounded {
		log = withinRange(log, from, to)
	}

	if limit, ok := domain.ParseLimit(in.Limit); ok && limit < len(log) {
		log = log[:limit]
	}

	if bounded {
		metrics.LogQueriesTotal.WithLabelValues("applied").Inc()
	} else {
		metrics.LogQueriesTotal.WithLabelValues("none").Inc()
	}
	metrics.LogEntriesReturned.Observe(float64(len(log)))

	s.logger.Debug().
		Str("user_id", user.ID).
		Bool("bounds_applied", bounded).
		Int("returned", len(log)).
		Int("stored", len(user.Log)).
		Msg("log query")

	result := &ports.LogResult{
		UserID:        user.ID,
		Username:      user.Username,
		Count:         len(log),
		Log:           log,
		BoundsApplied: bounded,
	}
	if bounded {
		result.From, result.To = from, to
	}
	return result, nil
}

// sortNewestFirst orders by date descending; equal dates keep insertion order.
func sortNewestFirst(log []domain.Exercise) {
	sort.SliceStable(log, func(i, j int) bool {
		return log[i].Date.After(log[j].Date)
	})
}

// withinRange keeps entries whose day lies in [from, to], both inclusive.
func withinRange(log []domain.Exercise, from, to time.Time) []domain.Exercise {
	out := log[:0]
	for _, e := range log {
		day := domain.TruncateDay(e.Date)
		if day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}
