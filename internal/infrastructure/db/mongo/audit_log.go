package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gerarics/ecommerce-api/internal/core/domain"
	"github.com/gerarics/ecommerce-api/internal/core/ports"
)

const auditCollection = "auth_audit_log"

// AuditLog persists identity audit events to the auth_audit_log collection.
type AuditLog struct {
	coll *mongo.Collection
}

func NewAuditLog(db *mongo.Database) *AuditLog {
	return &AuditLog{coll: db.Collection(auditCollection)}
}

func (l *AuditLog) Write(ctx context.Context, event ports.AuditEvent) error {
	doc := bson.M{
		"username":    domain.NormalizeUsername(event.Username),
		"action":      event.Action,
		"result":      event.Result,
		"occurred_at": event.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if _, err := l.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
