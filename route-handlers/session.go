package routehandlers

import (
	"errors"
	"net/http"

	"github.com/Madmax-op/FoodShare/forms"
	"github.com/Madmax-op/FoodShare/models"
	"github.com/Madmax-op/FoodShare/session"
	"github.com/Madmax-op/FoodShare/views"
	"github.com/Madmax-op/FoodShare/webutil"
)

var errNoSession = errors.New("no session in request context")

func requestSession(r *http.Request) (*models.Session, error) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		return nil, webutil.ErrInternalServerWrap("session middleware not installed", errNoSession)
	}
	return s, nil
}

func basePage(s *models.Session, title, active string) views.Page {
	return views.Page{Title: title, Active: active, Authenticated: s.Authenticated()}
}

// persist saves the session when an outcome changed it.
func persist(m *session.Manager, w http.ResponseWriter, r *http.Request, s *models.Session, out forms.Outcome) error {
	if !out.SessionChanged {
		return nil
	}
	return m.Save(r.Context(), w, s)
}

// statusFor picks the response code for a re-rendered form.
func statusFor(out forms.Outcome) int {
	if out.Kind == forms.KindError {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}
