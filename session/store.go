package session

import (
	"context"
	"errors"
	"time"

	"github.com/Madmax-op/FoodShare/models"
)

// ErrNotFound is returned for unknown and expired sessions alike.
var ErrNotFound = errors.New("session not found")

// Store persists sessions by ID.
type Store interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
	// PurgeExpired removes sessions that expired at or before now and reports
	// how many were removed. Stores with native expiry may return 0.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}
