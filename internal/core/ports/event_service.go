package ports

import (
	"context"

	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
)

// EventService handles exercise audit events drained from the dispatcher.
type EventService interface {
	Process(ctx context.Context, event domain.ExerciseEvent) error
}
