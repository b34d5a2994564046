package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
)

// A zero-value repository has no collection; reaching the driver would panic,
// which proves malformed ids are rejected before any round trip.
func TestUserRepository_MalformedIDNeverHitsStore(t *testing.T) {
	repo := &UserRepository{}
	ids := []string{"", "abc", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", "0123456789abcdef0123456"}

	for _, id := range ids {
		if _, err := repo.FindByID(context.Background(), id); !errors.Is(err, domain.ErrInvalidID) {
			t.Errorf("FindByID(%q): expected ErrInvalidID, got %v", id, err)
		}
		err := repo.AppendLogEntry(context.Background(), id, domain.Exercise{Description: "run", Duration: 1})
		if !errors.Is(err, domain.ErrInvalidID) {
			t.Errorf("AppendLogEntry(%q): expected ErrInvalidID, got %v", id, err)
		}
	}
}

func TestUserDocument_ToDomain(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := userDocument{
		ID:       oid,
		Username: "alice",
		Count:    2,
		Log: []exerciseDocument{
			{Description: "run", Duration: 30, Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
			{Description: "swim", Duration: 45, Date: time.Date(2024, time.January, 2, 15, 0, 0, 0, time.UTC)},
		},
	}

	u := doc.toDomain()
	if u.ID != oid.Hex() || u.Username != "alice" || u.Count != 2 {
		t.Fatalf("unexpected user: %+v", u)
	}
	if len(u.Log) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(u.Log))
	}
	if want := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC); !u.Log[1].Date.Equal(want) {
		t.Errorf("expected date truncated to %v, got %v", want, u.Log[1].Date)
	}
}
