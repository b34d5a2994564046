package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
	"github.com/exercisetracker/exercise-tracker/internal/core/ports"
)

// EventRepository implements ports.EventRepository on SQLite.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *sql.DB) ports.EventRepository {
	return &EventRepository{db: db}
}

// InsertEvent appends an audit event to the exercise_events table.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.ExerciseEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO exercise_events (id, user_id, username, description, duration, date, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.UserID, event.Username, event.Description, event.Duration,
		event.Date.UTC().Format(dayLayout), event.RecordedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}
