package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gerarics/ecommerce-api/internal/core/domain"
)

const (
	rolesCollection       = "roles"
	assignmentsCollection = "role_assignments"
)

// RoleRegistry persists role definitions and user-role assignments. Both
// EnsureRole and AssignRole are single upserts, so the database resolves
// duplicate-creation races instead of process-local locks.
type RoleRegistry struct {
	roles       *mongo.Collection
	assignments *mongo.Collection
}

func NewRoleRegistry(db *mongo.Database) *RoleRegistry {
	return &RoleRegistry{
		roles:       db.Collection(rolesCollection),
		assignments: db.Collection(assignmentsCollection),
	}
}

type roleDoc struct {
	ID             string `bson:"_id"`
	Name           string `bson:"name"`
	NameNormalized string `bson:"name_normalized"`
	CreatedAt      int64  `bson:"created_at"`
}

type assignmentDoc struct {
	UserID     string `bson:"user_id"`
	RoleID     string `bson:"role_id"`
	AssignedAt int64  `bson:"assigned_at"`
}

// EnsureRole finds or creates the role in one round-trip. $setOnInsert keeps
// the first writer's document, so concurrent callers all receive the same
// canonical Role.
func (r *RoleRegistry) EnsureRole(ctx context.Context, name string) (*domain.Role, error) {
	normalized := domain.NormalizeRole(name)
	if normalized == "" {
		return nil, fmt.Errorf("%w: role name is required", domain.ErrValidation)
	}

	filter := bson.M{"name_normalized": normalized}
	update := bson.M{"$setOnInsert": roleDoc{
		ID:             uuid.NewString(),
		Name:           name,
		NameNormalized: normalized,
		CreatedAt:      time.Now().UTC().Unix(),
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc roleDoc
	if err := r.roles.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		// Two racing upserts can still collide on the unique index; the
		// loser re-reads the winner's row.
		if mongo.IsDuplicateKeyError(err) {
			return r.findByNormalizedName(ctx, normalized)
		}
		return nil, fmt.Errorf("ensure role: %w", err)
	}
	return &domain.Role{ID: doc.ID, Name: doc.Name, CreatedAt: unixToTime(doc.CreatedAt)}, nil
}

func (r *RoleRegistry) findByNormalizedName(ctx context.Context, normalized string) (*domain.Role, error) {
	var doc roleDoc
	if err := r.roles.FindOne(ctx, bson.M{"name_normalized": normalized}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: doc.ID, Name: doc.Name, CreatedAt: unixToTime(doc.CreatedAt)}, nil
}

// AssignRole attaches the role to the user. Re-assigning an already-held
// role matches the existing row and changes nothing.
func (r *RoleRegistry) AssignRole(ctx context.Context, userID, roleName string) error {
	role, err := r.EnsureRole(ctx, roleName)
	if err != nil {
		return err
	}

	filter := bson.M{"user_id": userID, "role_id": role.ID}
	update := bson.M{"$setOnInsert": assignmentDoc{
		UserID:     userID,
		RoleID:     role.ID,
		AssignedAt: time.Now().UTC().Unix(),
	}}
	if _, err := r.assignments.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

// RolesOf returns the user's roles ordered by assignment time.
func (r *RoleRegistry) RolesOf(ctx context.Context, userID string) ([]domain.Role, error) {
	cur, err := r.assignments.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "assigned_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find assignments: %w", err)
	}
	defer cur.Close(ctx)

	var assignments []assignmentDoc
	if err := cur.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.RoleID)
	}

	rolesCur, err := r.roles.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	defer rolesCur.Close(ctx)

	byID := make(map[string]domain.Role, len(ids))
	for rolesCur.Next(ctx) {
		var doc roleDoc
		if err := rolesCur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		byID[doc.ID] = domain.Role{ID: doc.ID, Name: doc.Name, CreatedAt: unixToTime(doc.CreatedAt)}
	}
	if err := rolesCur.Err(); err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}

	roles := make([]domain.Role, 0, len(assignments))
	for _, a := range assignments {
		if role, ok := byID[a.RoleID]; ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}
