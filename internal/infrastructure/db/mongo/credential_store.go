package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gerarics/ecommerce-api/internal/core/domain"
)

const usersCollection = "users"

// CredentialStore persists identities in the "users" collection. The unique
// index on username_normalized is the authoritative uniqueness gate; the
// Exists fast path in the service only shortens the common case.
type CredentialStore struct {
	coll *mongo.Collection
}

func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{coll: db.Collection(usersCollection)}
}

type userDoc struct {
	ID                 string `bson:"_id"`
	Username           string `bson:"username"`
	UsernameNormalized string `bson:"username_normalized"`
	DisplayName        string `bson:"display_name,omitempty"`
	PasswordHash       string `bson:"password_hash"`
	CreatedAt          int64  `bson:"created_at"`
	UpdatedAt          int64  `bson:"updated_at"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		DisplayName:  d.DisplayName,
		PasswordHash: d.PasswordHash,
		CreatedAt:    unixToTime(d.CreatedAt),
		UpdatedAt:    unixToTime(d.UpdatedAt),
	}
}

func (s *CredentialStore) Exists(ctx context.Context, username string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx,
		bson.M{"username_normalized": domain.NormalizeUsername(username)},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDoc
	filter := bson.M{"username_normalized": domain.NormalizeUsername(username)}
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var doc userDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *CredentialStore) List(ctx context.Context) ([]domain.User, error) {
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "username_normalized", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []domain.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Create inserts the identity. A duplicate-key violation on the normalized
// username index surfaces as domain.ErrUserExists, which also covers the
// window two concurrent registrations can race through.
func (s *CredentialStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := userDoc{
		ID:                 user.ID,
		Username:           user.Username,
		UsernameNormalized: domain.NormalizeUsername(user.Username),
		DisplayName:        user.DisplayName,
		PasswordHash:       user.PasswordHash,
		CreatedAt:          user.CreatedAt.Unix(),
		UpdatedAt:          user.UpdatedAt.Unix(),
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
