package session

import (
	"context"

	"github.com/Madmax-op/FoodShare/models"
)

type contextKey struct{}

func WithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached by WithSession.
func FromContext(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*models.Session)
	return s, ok && s != nil
}
