package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Madmax-op/FoodShare/models"
)

const CookieName = "foodshare_session"

// Manager binds sessions to browser cookies.
type Manager struct {
	store  Store
	ttl    time.Duration
	secure bool
	log    *logrus.Logger
	now    func() time.Time
}

// NewManager returns a Manager over store. Sessions live for ttl; secureCookie
// marks the cookie Secure.
func NewManager(store Store, ttl time.Duration, secureCookie bool, log *logrus.Logger) *Manager {
	return &Manager{
		store:  store,
		ttl:    ttl,
		secure: secureCookie,
		log:    log,
		now:    time.Now,
	}
}

// Load returns the session named by the request cookie. A missing cookie or an
// unknown or expired session yields a fresh anonymous session; isNew reports
// that case so the caller can persist it.
func (m *Manager) Load(r *http.Request) (s *models.Session, isNew bool, err error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return m.New(), true, nil
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		m.log.WithField("cookie", c.Value).Debug("ignoring malformed session cookie")
		return m.New(), true, nil
	}

	s, err = m.store.Get(r.Context(), c.Value)
	if errors.Is(err, ErrNotFound) {
		return m.New(), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load session: %w", err)
	}
	return s, false, nil
}

// New returns an anonymous session with a random ID. It is not stored.
func (m *Manager) New() *models.Session {
	now := m.now()
	return &models.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
}

// Save persists s and (re)issues its cookie. The expiry slides forward by the
// configured TTL but never beyond the bearer token's own expiry.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *models.Session) error {
	s.ExpiresAt = m.expiry(s.Token)
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	http.SetCookie(w, m.cookie(s.ID, s.ExpiresAt))
	return nil
}

// Destroy deletes s from the store and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *models.Session) error {
	if err := m.store.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	c := m.cookie("", time.Unix(0, 0))
	c.MaxAge = -1
	http.SetCookie(w, c)
	return nil
}

func (m *Manager) expiry(token string) time.Time {
	exp := m.now().Add(m.ttl)
	if tokenExp, ok := tokenExpiry(token); ok && tokenExp.Before(exp) {
		return tokenExp
	}
	return exp
}

func (m *Manager) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// tokenExpiry reads the exp claim of a JWT bearer token without verifying its
// signature. Opaque tokens report ok=false.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
