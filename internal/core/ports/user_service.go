package ports

import (
	"context"
	"time"

	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
)

// UserResult is returned by the user registry.
type UserResult struct {
	ID       string
	Username string
	// Created is false when the username was already registered.
	Created bool
}

// UserService registers and lists users.
type UserService interface {
	Create(ctx context.Context, username string) (*UserResult, error)
	List(ctx context.Context) ([]UserResult, error)
}

// ExerciseInput carries the raw, still unparsed form values of a new entry.
type ExerciseInput struct {
	UserID      string
	Description string
	Duration    string
	Date        string
	// IdempotencyKey is optional. Replays with the same key for the same user
	// return the first result without appending again.
	IdempotencyKey string
}

// ExerciseResult is returned after an entry has been appended.
type ExerciseResult struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"`
	Date        time.Time `json:"date"`
}

// ExerciseService records exercise entries.
type ExerciseService interface {
	Record(ctx context.Context, input ExerciseInput) (*ExerciseResult, error)
}

// LogQueryInput carries raw from/to/limit query parameters.
type LogQueryInput struct {
	UserID string
	From   string
	To     string
	Limit  string
}

// LogResult is the filtered, sorted and truncated view of a user's log.
type LogResult struct {
	UserID   string
	Username string
	Count    int
	Log      []domain.Exercise
	// From and To are meaningful only when BoundsApplied is true, which
	// happens only when both bounds parsed.
	From          time.Time
	To            time.Time
	BoundsApplied bool
}

// LogService answers log queries.
type LogService interface {
	Query(ctx context.Context, input LogQueryInput) (*LogResult, error)
}
