package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/exercisetracker/exercise-tracker/internal/api/metrics"
	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
	"github.com/exercisetracker/exercise-tracker/internal/core/ports"
)

type eventService struct {
	eventRepo ports.EventRepository
	log       zerolog.Logger
}

// NewEventService returns an EventService that writes audit events to repo.
func NewEventService(eventRepo ports.EventRepository, log zerolog.Logger) ports.EventService {
	return &eventService{eventRepo: eventRepo, log: log}
}

// Process persists a single audit event.
func (s *eventService) Process(ctx context.Context, event domain.ExerciseEvent) error {
	start := time.Now()

	if err := s.eventRepo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		metrics.AuditProcessingDuration.WithLabelValues("failed").Observe(time.Since(start).Seconds())
		return fmt.Errorf("process audit event %s: %w", event.ID, err)
	}

	metrics.AuditEventsTotal.WithLabelValues("persisted").Inc()
	metrics.AuditProcessingDuration.WithLabelValues("persisted").Observe(time.Since(start).Seconds())

	s.log.Debug().
		Str("event_id", event.ID).
		Str("user_id", event.UserID).
		Msg("audit event persisted")

	return nil
}
