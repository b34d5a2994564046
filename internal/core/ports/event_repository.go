package ports

import (
	"context"

	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
)

// EventRepository persists exercise audit events.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.ExerciseEvent) error
}
