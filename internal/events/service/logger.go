package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mrb1sh0p/email-mass-api/internal/events/domain"
)

// Logger is a simple Publisher that logs events.
// In production, replace with a queue or external sink.
type Logger struct{}

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) Publish(ctx context.Context, e domain.Event) error {
	log.Ctx(ctx).Info().
		Str("type", e.Type).
		Str("org_id", e.OrgID).
		Str("user_id", e.UserID).
		Fields(map[string]any{"meta": e.Meta}).
		Time("ts", e.Time).
		Msg("event")
	return nil
}
