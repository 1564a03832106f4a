package models

import (
	"strings"
	"time"
)

// Roles as issued by the remote API.
const (
	RoleDonor = "DONOR"
	RoleNGO   = "NGO"
	RoleAdmin = "ADMIN"
)

// Session is the server-side replacement for the token and user object a
// browser would otherwise keep in local storage.
type Session struct {
	ID          string       `json:"id"`
	Token       string       `json:"token,omitempty"`
	UserID      *int64       `json:"userId,omitempty"`
	Role        string       `json:"role,omitempty"`
	CurrentUser *CurrentUser `json:"currentUser,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// UserRole is the role from login, or from the cached profile when the login
// response carried none.
func (s *Session) UserRole() string {
	role := s.Role
	if role == "" && s.CurrentUser != nil {
		role = s.CurrentUser.Role
	}
	return strings.TrimPrefix(strings.ToUpper(role), "ROLE_")
}

// SetAuth stores the result of a successful login.
func (s *Session) SetAuth(resp AuthResponse) {
	s.Token = resp.Token
	s.UserID = resp.UserID
	s.Role = resp.Role
	s.CurrentUser = nil
}

// ClearAuth forgets the token and any cached user.
func (s *Session) ClearAuth() {
	s.Token = ""
	s.UserID = nil
	s.Role = ""
	s.CurrentUser = nil
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
