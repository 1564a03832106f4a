package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	rh "github.com/Madmax-op/FoodShare/route-handlers"
	"github.com/Madmax-op/FoodShare/session"
	"github.com/Madmax-op/FoodShare/views"
	"github.com/Madmax-op/FoodShare/webutil"
)

const (
	loginPath       = "/login"
	logoutPath      = "/logout"
	registerPath    = "/register"
	dashboardPath   = "/dashboard"
	leaderboardPath = "/leaderboard"
	mapPath         = "/map"
	mapAPIPath      = "/api"
	staticPath      = "/static"
	tickPath        = "/scheduler/tick"
)

// HeaderSchedulerToken carries the shared secret for triggering a purge.
const HeaderSchedulerToken = "X-Scheduler-Token"

const requestTimeout = 60 * time.Second

func SetupRoutes(
	authHandler *rh.AuthHandler,
	registerHandler *rh.RegisterHandler,
	dashboardHandler *rh.DashboardHandler,
	leaderboardHandler *rh.LeaderboardHandler,
	mapHandler *rh.MapHandler,
	schedulerTick http.HandlerFunc,
	schedulerToken string,
	sessions *session.Manager,
	log *logrus.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", handleHealthCheck)
	r.Handle(staticPath+"/*", http.StripPrefix(staticPath, views.Static()))
	// Without a token the purge only runs on its own schedule.
	if schedulerToken != "" {
		r.With(RequireToken(HeaderSchedulerToken, schedulerToken, log)).Post(tickPath, schedulerTick)
	}
	r.NotFound(webutil.MakeHandler(handleNotFound))

	r.Group(func(r chi.Router) {
		r.Use(Sessions(sessions, log))

		r.Get("/", webutil.MakeHandler(leaderboardHandler.HandleIndex))
		configureAuthRoutes(r, authHandler, registerHandler)
		r.Get(dashboardPath, webutil.MakeHandler(dashboardHandler.HandleDashboard))
		configureLeaderboardRoutes(r, leaderboardHandler)
		configureMapRoutes(r, mapHandler)
	})

	return r
}

func configureAuthRoutes(r chi.Router, auth *rh.AuthHandler, register *rh.RegisterHandler) {
	r.Get(loginPath, webutil.MakeHandler(auth.HandleLoginPage))
	r.Post(loginPath, webutil.MakeHandler(auth.HandleLogin))
	r.Post(logoutPath, webutil.MakeHandler(auth.HandleLogout))

	r.Route(registerPath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(register.HandleRegisterPage))
		r.Post("/donor", webutil.MakeHandler(register.HandleRegisterDonor))
		r.Post("/ngo", webutil.MakeHandler(register.HandleRegisterNGO))
		r.Post("/locate", webutil.MakeHandler(register.HandleLocate))
	})
}

func configureLeaderboardRoutes(r chi.Router, handler *rh.LeaderboardHandler) {
	r.Route(leaderboardPath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleLeaderboardPage))
		r.Get("/{"+rh.ParamPeriod+"}", webutil.MakeHandler(handler.HandleLeaderboardFragment))
	})
}

func configureMapRoutes(r chi.Router, handler *rh.MapHandler) {
	r.Route(mapPath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleMapPage))
		r.Route(mapAPIPath, func(r chi.Router) {
			r.Use(SetHeader(webutil.HeaderCacheControl, "no-store"))
			r.Get("/route/fastest", webutil.MakeHandler(handler.HandleFastestRoute))
			r.Post("/route/optimized", webutil.MakeHandler(handler.HandleOptimizedRoute))
			r.Get("/geocode", webutil.MakeHandler(handler.HandleGeocode))
			r.Get("/geocode/reverse", webutil.MakeHandler(handler.HandleReverseGeocode))
		})
	})
}

func handleNotFound(http.ResponseWriter, *http.Request) error {
	return webutil.ErrNotFound("")
}

func handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
