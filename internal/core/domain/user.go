package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound    = errors.New("unknown user")
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrRequestInProgress is returned when another request holding the same
	// idempotency key has not finished yet.
	ErrRequestInProgress = errors.New("request in progress")
)

// ErrInvalidID is returned for identifiers that cannot belong to any user.
// It matches ErrUserNotFound under errors.Is.
var ErrInvalidID = fmt.Errorf("invalid id: %w", ErrUserNotFound)

// Exercise is a single log entry. It has no identity outside its owner's log.
type Exercise struct {
	Description string
	Duration    int       // minutes
	Date        time.Time // UTC midnight
}

// User owns an append-only exercise log. Count mirrors len(Log) and is
// maintained by the store in the same update as each append.
type User struct {
	ID       string
	Username string
	Count    int
	Log      []Exercise
}

// UserSummary is the projection returned when listing users.
type UserSummary struct {
	ID       string
	Username string
}
