package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/exercisetracker/exercise-tracker/internal/api/metrics"
	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
	"github.com/exercisetracker/exercise-tracker/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Create registers username. Registering an existing username returns the
// identifier it already has.
func (s *UserService) Create(ctx context.Context, username string) (*ports.UserResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.ErrInvalidUsername
	}

	user, created, err := s.repo.InsertUnlessExists(ctx, username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to register user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	if created {
		metrics.UsersRegisteredTotal.WithLabelValues("created").Inc()
		s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user created")
	} else {
		metrics.UsersRegisteredTotal.WithLabelValues("existing").Inc()
		s.logger.Debug().Str("user_id", user.ID).Str("username", user.Username).Msg("user already registered")
	}

	return &ports.UserResult{ID: user.ID, Username: user.Username, Created: created}, nil
}

func (s *UserService) List(ctx context.Context) ([]ports.UserResult, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]ports.UserResult, len(users))
	for i, u := range users {
		out[i] = ports.UserResult{ID: u.ID, Username: u.Username}
	}
	return out, nil
}
