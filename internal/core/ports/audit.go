package ports

import (
	"context"
	"time"
)

// Audit actions recorded by the identity core.
const (
	AuditActionRegister = "register"
	AuditActionLogin    = "login"
)

// AuditEvent is one identity-related action worth a durable trace.
// It never carries passwords or hashes.
type AuditEvent struct {
	Username string
	Action   string
	Result   string
	At       time.Time
}

// AuditWriter persists audit events.
type AuditWriter interface {
	Write(ctx context.Context, event AuditEvent) error
}

// AuditSink accepts events for asynchronous recording; enqueueing must not
// block the request path.
type AuditSink interface {
	Enqueue(event AuditEvent)
}
