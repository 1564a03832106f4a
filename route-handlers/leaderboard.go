package routehandlers

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/Madmax-op/FoodShare/leaderboard"
	"github.com/Madmax-op/FoodShare/models"
	"github.com/Madmax-op/FoodShare/views"
	"github.com/Madmax-op/FoodShare/webutil"
)

const ParamPeriod = "period"

type LeaderboardHandler struct {
	Board *leaderboard.Board
	Views *views.Renderer
}

func NewLeaderboardHandler(board *leaderboard.Board, renderer *views.Renderer) *LeaderboardHandler {
	return &LeaderboardHandler{Board: board, Views: renderer}
}

// HandleIndex renders the landing page with this month's leaderboard.
func (h *LeaderboardHandler) HandleIndex(w http.ResponseWriter, r *http.Request) error {
	s, err := requestSession(r)
	if err != nil {
		return err
	}
	return h.Views.Render(w, http.StatusOK, views.PageIndex, views.IndexPage{
		Page:        basePage(s, "Home", views.NavHome),
		Leaderboard: h.Board.Select(r.Context(), s.ID, models.PeriodMonthly),
	})
}

func (h *LeaderboardHandler) HandleLeaderboardPage(w http.ResponseWriter, r *http.Request) error {
	s, err := requestSession(r)
	if err != nil {
		return err
	}

	period := models.PeriodMonthly
	if raw := r.URL.Query().Get(ParamPeriod); raw != "" {
		if period, err = models.ParsePeriod(raw); err != nil {
			return webutil.ErrNotFoundWrap("No such leaderboard period", err)
		}
	}

	current := h.Board.Select(r.Context(), s.ID, period)
	loaded := h.Board.Loaded(r.Context(), s.ID)
	if !slices.ContainsFunc(loaded, func(g leaderboard.Grid) bool { return g.Period == period }) {
		// The cache could not hold the selected grid.
		loaded = append(loaded, current)
	}
	page := views.NewLeaderboardPage(basePage(s, "Leaderboard", views.NavLeaderboard), period, loaded)
	return h.Views.Render(w, http.StatusOK, views.PageLeaderboard, page)
}

// HandleLeaderboardFragment serves one period's grid for in-page tab switches.
func (h *LeaderboardHandler) HandleLeaderboardFragment(w http.ResponseWriter, r *http.Request) error {
	s, err := requestSession(r)
	if err != nil {
		return err
	}
	period, err := models.ParsePeriod(chi.URLParam(r, ParamPeriod))
	if err != nil {
		return webutil.ErrNotFoundWrap("No such leaderboard period", err)
	}
	return h.Views.RenderFragment(w, http.StatusOK, views.FragmentLeaderboardGrid, h.Board.Select(r.Context(), s.ID, period))
}
