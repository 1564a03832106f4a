package routehandlers

import (
	"fmt"
	"net/http"

	"github.com/Madmax-op/FoodShare/forms"
	"github.com/Madmax-op/FoodShare/session"
	"github.com/Madmax-op/FoodShare/views"
	"github.com/Madmax-op/FoodShare/webutil"
)

type DashboardHandler struct {
	Forms    *forms.Controller
	Sessions *session.Manager
	Views    *views.Renderer
}

func NewDashboardHandler(fc *forms.Controller, sessions *session.Manager, renderer *views.Renderer) *DashboardHandler {
	return &DashboardHandler{Forms: fc, Sessions: sessions, Views: renderer}
}

func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) error {
	s, err := requestSession(r)
	if err != nil {
		return err
	}

	out, user := h.Forms.LoadCurrentUser(r.Context(), s)
	if err := persist(h.Sessions, w, r, s, out); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if out.Redirecting() {
		webutil.Redirect(w, r, out.RedirectTo)
		return nil
	}

	return h.Views.Render(w, http.StatusOK, views.PageDashboard, views.DashboardPage{
		Page: basePage(s, "Dashboard", views.NavDashboard),
		User: *user,
	})
}
