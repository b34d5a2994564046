package ports

import (
	"context"

	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
)

// UserRepository is the store adapter for user documents and their embedded
// exercise logs. Implementations validate identifier shape before any round
// trip and report domain.ErrInvalidID for malformed ones.
type UserRepository interface {
	// InsertUnlessExists returns the user registered under username, creating
	// it when absent. created reports whether this call inserted it.
	InsertUnlessExists(ctx context.Context, username string) (user *domain.User, created bool, err error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// ListAll returns every user in insertion order.
	ListAll(ctx context.Context) ([]domain.UserSummary, error)
	// AppendLogEntry atomically pushes entry onto the user's log and bumps the
	// stored count. Either both happen or neither does.
	AppendLogEntry(ctx context.Context, id string, entry domain.Exercise) error
}
