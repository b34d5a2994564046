package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository using MongoDB. Each user is
// one document with its exercise log embedded as an array.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type exerciseDocument struct {
	Description string    `bson:"description"`
	Duration    int       `bson:"duration"`
	Date        time.Time `bson:"date"`
}

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
	Count    int                `bson:"count"`
	Log      []exerciseDocument `bson:"log"`
}

func (d userDocument) toDomain() *domain.User {
	u := &domain.User{
		ID:       d.ID.Hex(),
		Username: d.Username,
		Count:    d.Count,
		Log:      make([]domain.Exercise, len(d.Log)),
	}
	for i, e := range d.Log {
		u.Log[i] = domain.Exercise{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        domain.TruncateDay(e.Date),
		}
	}
	return u
}

// objectID validates the identifier shape locally so malformed ids never
// cost a round trip.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

// InsertUnlessExists upserts on username so concurrent registrations of the
// same name converge on one document.
func (r *UserRepository) InsertUnlessExists(ctx context.Context, username string) (*domain.User, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// The equality filter seeds username on insert.
	filter := bson.M{"username": username}
	update := bson.M{"$setOnInsert": bson.M{
		"count": 0,
		"log":   bson.A{},
	}}

	res, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("upsert user: %w", err)
	}
	// A duplicate key error means a concurrent upsert won; fall through and
	// read the winner.
	if err == nil && res.UpsertedID != nil {
		if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
			return &domain.User{ID: oid.Hex(), Username: username, Log: []domain.Exercise{}}, true, nil
		}
	}

	existing, err := r.FindByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// FindByID retrieves a user and its full log.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return doc.toDomain(), nil
}

// ListAll projects only _id and username, ordered by _id (creation order).
func (r *UserRepository) ListAll(ctx context.Context) ([]domain.UserSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"username": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]domain.UserSummary, len(docs))
	for i, d := range docs {
		out[i] = domain.UserSummary{ID: d.ID.Hex(), Username: d.Username}
	}
	return out, nil
}

// AppendLogEntry pushes the entry and increments count in a single update,
// which MongoDB applies atomically to the document.
func (r *UserRepository) AppendLogEntry(ctx context.Context, id string, entry domain.Exercise) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"count": 1},
		"$push": bson.M{"log": exerciseDocument{
			Description: entry.Description,
			Duration:    entry.Duration,
			Date:        domain.TruncateDay(entry.Date),
		}},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("append exercise: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique username index backing InsertUnlessExists.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
