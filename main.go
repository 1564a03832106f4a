package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Madmax-op/FoodShare/api"
	"github.com/Madmax-op/FoodShare/apiclient"
	"github.com/Madmax-op/FoodShare/config"
	"github.com/Madmax-op/FoodShare/datastore"
	"github.com/Madmax-op/FoodShare/forms"
	"github.com/Madmax-op/FoodShare/leaderboard"
	"github.com/Madmax-op/FoodShare/maps"
	rh "github.com/Madmax-op/FoodShare/route-handlers"
	"github.com/Madmax-op/FoodShare/scheduler"
	"github.com/Madmax-op/FoodShare/session"
	"github.com/Madmax-op/FoodShare/views"
	"github.com/Madmax-op/FoodShare/webutil"
)

const (
	shutdownTimeout = 15 * time.Second
	startupTimeout  = 10 * time.Second
	mapsHTTPTimeout = 10 * time.Second
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("configuration failed")
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	webutil.SetLogger(log)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	var rdb *redis.Client
	if cfg.UsesRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("redis connection failed")
		}
		defer rdb.Close()
		log.WithField("addr", cfg.RedisAddr).Info("redis connection successful")
	}

	purge := scheduler.New(log)

	store, db, err := setupSessionStore(ctx, cfg, rdb)
	if err != nil {
		log.WithError(err).Fatal("session store setup failed")
	}
	if db != nil {
		defer db.Close()
	}
	purge.Register("sessions", store)
	sessions := session.NewManager(store, cfg.SessionTTL, cfg.CookieSecure, log)

	var cache leaderboard.Cache
	if rdb != nil {
		cache = leaderboard.NewRedisCache(rdb, cfg.LeaderboardTTL)
	} else {
		memCache := leaderboard.NewMemoryCache(cfg.LeaderboardTTL)
		purge.Register("leaderboard", memCache)
		cache = memCache
	}

	client := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, log)
	board := leaderboard.NewBoard(client, cache, log)

	loader := maps.NewLoader(cfg.MapsAPIKey, cfg.MapsBaseURL, &http.Client{Timeout: mapsHTTPTimeout})
	var locator forms.Locator
	if loader.Configured() {
		overlay := maps.NewOverlay(loader, log)
		if err := overlay.Init(ctx); err != nil {
			log.WithError(err).Warn("mapping service unavailable, location lookup disabled")
		} else {
			locator = overlay
		}
	} else {
		log.Warn("GOOGLE_MAPS_API_KEY not set, map features disabled")
	}

	renderer, err := views.NewRenderer()
	if err != nil {
		log.WithError(err).Fatal("template parsing failed")
	}

	controller := forms.NewController(client, locator, log)

	router := api.SetupRoutes(
		rh.NewAuthHandler(controller, sessions, renderer),
		rh.NewRegisterHandler(controller, renderer, locator != nil),
		rh.NewDashboardHandler(controller, sessions, renderer),
		rh.NewLeaderboardHandler(board, renderer),
		rh.NewMapHandler(loader, client, controller, sessions, renderer, log),
		purge.HandleTick,
		cfg.SchedulerToken,
		sessions,
		log,
	)

	if err := purge.Start(cfg.PurgeSchedule); err != nil {
		log.WithError(err).Fatal("scheduler setup failed")
	}

	startServer(cfg.Port, router, log)

	stopCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	purge.Stop(stopCtx)
}

// setupSessionStore returns the configured backend. db is non-nil only for
// the postgres backend and must be closed by the caller.
func setupSessionStore(ctx context.Context, cfg *config.Config, rdb *redis.Client) (session.Store, *sql.DB, error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		return session.NewRedisStore(rdb), nil, nil
	case config.BackendPostgres:
		db, err := datastore.Open(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, err
		}
		repo := datastore.NewSessionRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, db, nil
	default:
		return session.NewMemoryStore(), nil, nil
	}
}

func startServer(port string, router http.Handler, log *logrus.Logger) {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infof("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}

	log.Info("Server gracefully stopped")
}
