package domain

import "time"

// ExerciseEvent is the audit record emitted after an exercise lands in a log.
type ExerciseEvent struct {
	ID          string
	UserID      string
	Username    string
	Description string
	Duration    int
	Date        time.Time
	RecordedAt  time.Time
}
