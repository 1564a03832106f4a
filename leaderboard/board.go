package leaderboard

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Madmax-op/FoodShare/apiclient"
	"github.com/Madmax-op/FoodShare/models"
)

// Fetcher loads live rankings; *apiclient.Client implements it.
type Fetcher interface {
	GetLeaderboard(ctx context.Context, period models.Period) (apiclient.Result[[]models.LeaderboardEntry], error)
}

// Board serves leaderboard grids, fetching each period at most once per scope.
type Board struct {
	fetcher Fetcher
	cache   Cache
	log     *logrus.Logger
}

// NewBoard returns a Board that fetches through fetcher and keeps what it
// loads in cache.
func NewBoard(fetcher Fetcher, cache Cache, log *logrus.Logger) *Board {
	return &Board{fetcher: fetcher, cache: cache, log: log}
}

// Select returns the grid for period within scope (one browser session).
// A period loaded earlier in the same scope is served from the cache. A failed
// fetch yields the embedded sample data for that period, which is then cached
// like a live result.
func (b *Board) Select(ctx context.Context, scope string, period models.Period) Grid {
	entry := b.log.WithFields(logrus.Fields{"scope": scope, "period": period})

	snap, ok, err := b.cache.Get(ctx, scope, period)
	if err != nil {
		entry.WithError(err).Warn("leaderboard cache read failed, refetching")
	}
	if ok {
		return snap.grid(period)
	}

	snap = b.load(ctx, period, entry)
	if ctx.Err() == nil {
		if err := b.cache.Put(ctx, scope, period, snap); err != nil {
			entry.WithError(err).Warn("leaderboard cache write failed")
		}
	}
	return snap.grid(period)
}

// Loaded returns the grids already loaded in scope, in tab order.
func (b *Board) Loaded(ctx context.Context, scope string) []Grid {
	var grids []Grid
	for _, p := range models.Periods() {
		snap, ok, err := b.cache.Get(ctx, scope, p)
		if err != nil || !ok {
			continue
		}
		grids = append(grids, snap.grid(p))
	}
	return grids
}

func (b *Board) load(ctx context.Context, period models.Period, entry *logrus.Entry) Snapshot {
	res, err := b.fetcher.GetLeaderboard(ctx, period)
	switch {
	case err != nil:
		entry.WithError(err).Error("error fetching leaderboard data, using sample data")
	case !res.Success:
		entry.WithField("message", res.Message).Error("failed to fetch leaderboard data, using sample data")
	default:
		entry.WithField("entries", len(res.Data)).Debug("leaderboard loaded")
		return Snapshot{Entries: res.Data}
	}
	return Snapshot{Entries: Fallback(period), Fallback: true}
}

// Snapshot is what the cache keeps per period: the entries as received.
type Snapshot struct {
	Entries  []models.LeaderboardEntry `json:"entries"`
	Fallback bool                      `json:"fallback"`
}

func (s Snapshot) grid(p models.Period) Grid {
	return Grid{Period: p, Items: Render(s.Entries), Fallback: s.Fallback}
}
