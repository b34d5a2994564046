package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
)

// UserRepository implements ports.UserRepository on SQLite. Identifiers use
// the same 24-hex ObjectID format as the MongoDB store.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// InsertUnlessExists inserts username or returns the existing row.
func (r *UserRepository) InsertUnlessExists(ctx context.Context, username string) (*domain.User, bool, error) {
	id := primitive.NewObjectID().Hex()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, count) VALUES (?, ?, 0) ON CONFLICT(username) DO NOTHING`,
		id, username)
	if err != nil {
		return nil, false, fmt.Errorf("insert user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("insert user: %w", err)
	}
	if n == 1 {
		return &domain.User{ID: id, Username: username, Log: []domain.Exercise{}}, true, nil
	}

	u, err := r.FindByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}
	return u, false, nil
}

// FindByID returns the user with its full log in insertion order.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, domain.ErrInvalidID
	}
	return r.findOne(ctx, `SELECT id, username, count FROM users WHERE id = ?`, id)
}

// FindByUsername returns the user registered under username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT id, username, count FROM users WHERE username = ?`, username)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	log, err := r.loadLog(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Log = log
	return &u, nil
}

func (r *UserRepository) loadLog(ctx context.Context, userID string) ([]domain.Exercise, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT description, duration, date FROM exercises WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("load log: %w", err)
	}
	defer rows.Close()

	log := []domain.Exercise{}
	for rows.Next() {
		var (
			e    domain.Exercise
			date string
		)
		if err := rows.Scan(&e.Description, &e.Duration, &date); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		e.Date, err = time.ParseInLocation(dayLayout, date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse log date %q: %w", date, err)
		}
		log = append(log, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load log: %w", err)
	}
	return log, nil
}

// ListAll returns every user's id and username in registration order.
func (r *UserRepository) ListAll(ctx context.Context) ([]domain.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username FROM users ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.UserSummary{}
	for rows.Next() {
		var s domain.UserSummary
		if err := rows.Scan(&s.ID, &s.Username); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// AppendLogEntry bumps the user's count and inserts the entry in one transaction.
func (r *UserRepository) AppendLogEntry(ctx context.Context, id string, e domain.Exercise) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return domain.ErrInvalidID
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `UPDATE users SET count = count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO exercises (user_id, description, duration, date) VALUES (?, ?, ?, ?)`,
		id, e.Description, e.Duration, e.Date.UTC().Format(dayLayout)); err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}

	return tx.Commit()
}
