package routehandlers

import (
	"fmt"
	"net/http"

	"github.com/Madmax-op/FoodShare/forms"
	"github.com/Madmax-op/FoodShare/session"
	"github.com/Madmax-op/FoodShare/views"
	"github.com/Madmax-op/FoodShare/webutil"
)

type AuthHandler struct {
	Forms    *forms.Controller
	Sessions *session.Manager
	Views    *views.Renderer
}

func NewAuthHandler(fc *forms.Controller, sessions *session.Manager, renderer *views.Renderer) *AuthHandler {
	return &AuthHandler{Forms: fc, Sessions: sessions, Views: renderer}
}

func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) error {
	s, err := requestSession(r)
	if err != nil {
		return err
	}
	if out, ok := forms.GuardAuthPage(s); ok {
		webutil.Redirect(w, r, out.RedirectTo)
		return nil
	}
	return h.Views.Render(w, http.StatusOK, views.PageLogin, views.LoginPage{
		Page: basePage(s, "Log in", views.NavLogin),
	})
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	s, err := requestSession(r)
	if err != nil {
		return err
	}
	if err := r.ParseForm(); err != nil {
		return webutil.ErrBadRequest("Invalid form submission")
	}

	out := h.Forms.Login(r.Context(), s, r.PostForm)
	if err := persist(h.Sessions, w, r, s, out); err != nil {
		return fmt.Errorf("failed to store login: %w", err)
	}

	page := views.LoginPage{Page: basePage(s, "Log in", views.NavLogin), Form: views.StateFrom(out)}
	page.Apply(out)
	return h.Views.Render(w, statusFor(out), views.PageLogin, page)
}

// HandleLogout clears the session and sends the visitor home.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) error {
	s, err := requestSession(r)
	if err != nil {
		return err
	}
	out := h.Forms.Logout(s)
	if err := h.Sessions.Destroy(r.Context(), w, s); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	webutil.Redirect(w, r, out.RedirectTo)
	return nil
}
