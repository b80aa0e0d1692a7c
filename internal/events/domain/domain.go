package domain

import (
	"context"
	"time"
)

// Event represents a security/audit event.
// Type examples: "auth.login.success", "mailer.dispatch.completed"
// Meta may contain ip, error codes, counters, etc.
type Event struct {
	Type   string
	OrgID  string
	UserID string
	Meta   map[string]string
	Time   time.Time
}

// Publisher publishes events to an external system (log, queue, etc.).
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
