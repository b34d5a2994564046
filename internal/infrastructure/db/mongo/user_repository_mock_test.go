package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
)

// These tests run the repository against the driver's mock deployment, which
// replays canned server replies in order.

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func userDoc(oid primitive.ObjectID, username string, log ...bson.D) bson.D {
	entries := bson.A{}
	for _, e := range log {
		entries = append(entries, e)
	}
	return bson.D{
		{Key: "_id", Value: oid},
		{Key: "username", Value: username},
		{Key: "count", Value: int32(len(log))},
		{Key: "log", Value: entries},
	}
}

func TestUserRepository_InsertUnlessExists(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("new username is upserted", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: oid}}}},
		))

		u, created, err := repo.InsertUnlessExists(context.Background(), "alice")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if !created || u.ID != oid.Hex() || u.Username != "alice" {
			mt.Fatalf("expected a created alice with id %s, got %+v created=%v", oid.Hex(), u, created)
		}
	})

	mt.Run("existing username returns the stored user", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		oid := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, userDoc(oid, "alice")),
		)

		u, created, err := repo.InsertUnlessExists(context.Background(), "alice")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if created || u.ID != oid.Hex() {
			mt.Fatalf("expected the existing id %s, got %+v created=%v", oid.Hex(), u, created)
		}
	})

	mt.Run("duplicate key reads the concurrent winner", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		oid := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, userDoc(oid, "alice")),
		)

		u, created, err := repo.InsertUnlessExists(context.Background(), "alice")
		if err != nil {
			mt.Fatalf("expected the duplicate key error to be absorbed, got %v", err)
		}
		if created || u.ID != oid.Hex() {
			mt.Fatalf("expected the winner %s, got %+v created=%v", oid.Hex(), u, created)
		}
	})

	mt.Run("other write errors surface", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 2, Message: "bad value"}))

		if _, _, err := repo.InsertUnlessExists(context.Background(), "alice"); err == nil {
			mt.Fatal("expected an error")
		}
	})
}

func TestUserRepository_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes the embedded log", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		oid := primitive.NewObjectID()
		day := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, userDoc(oid, "alice",
			bson.D{{Key: "description", Value: "run"}, {Key: "duration", Value: int32(30)}, {Key: "date", Value: day}},
		)))

		u, err := repo.FindByID(context.Background(), oid.Hex())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if u.Username != "alice" || u.Count != 1 || len(u.Log) != 1 {
			mt.Fatalf("unexpected user: %+v", u)
		}
		if e := u.Log[0]; e.Description != "run" || e.Duration != 30 || !e.Date.Equal(day) {
			mt.Fatalf("unexpected entry: %+v", e)
		}
	})

	mt.Run("no document is unknown user", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		if !errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidID) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_ListAll(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns id and username in cursor order", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: a}, {Key: "username", Value: "alice"}},
			bson.D{{Key: "_id", Value: b}, {Key: "username", Value: "bob"}},
		))

		users, err := repo.ListAll(context.Background())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		want := []domain.UserSummary{{ID: a.Hex(), Username: "alice"}, {ID: b.Hex(), Username: "bob"}}
		if len(users) != 2 || users[0] != want[0] || users[1] != want[1] {
			mt.Fatalf("expected %v, got %v", want, users)
		}
	})
}

func TestUserRepository_AppendLogEntry(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	entry := domain.Exercise{Description: "run", Duration: 30, Date: time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)}

	mt.Run("matched document is updated", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		if err := repo.AppendLogEntry(context.Background(), primitive.NewObjectID().Hex(), entry); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
	})

	mt.Run("no match is unknown user", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.AppendLogEntry(context.Background(), primitive.NewObjectID().Hex(), entry)
		if !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("server errors are wrapped", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 0}, {Key: "code", Value: 2}, {Key: "errmsg", Value: "BadValue"}})

		err := repo.AppendLogEntry(context.Background(), primitive.NewObjectID().Hex(), entry)
		if err == nil || errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected a store error, got %v", err)
		}
	})
}
