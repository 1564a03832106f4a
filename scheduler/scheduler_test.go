package scheduler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Madmax-op/FoodShare/leaderboard"
	"github.com/Madmax-op/FoodShare/models"
	"github.com/Madmax-op/FoodShare/session"
)

type stubPurger struct {
	n     int
	err   error
	calls int
	at    time.Time
}

func (p *stubPurger) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	p.calls++
	p.at = now
	return p.n, p.err
}

func newTestScheduler(t *testing.T) (*Scheduler, *test.Hook, time.Time) {
	t.Helper()
	log, hook := test.NewNullLogger()
	s := New(log)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, hook, now
}

func TestTickSumsPurgers(t *testing.T) {
	s, _, now := newTestScheduler(t)
	a := &stubPurger{n: 2}
	b := &stubPurger{n: 3}
	s.Register("sessions", a)
	s.Register("leaderboard", b)
	s.Register("ignored", nil)

	n, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, now, a.at)
	assert.Equal(t, 1, b.calls)
}

func TestTickContinuesAfterFailure(t *testing.T) {
	s, hook, _ := newTestScheduler(t)
	boom := errors.New("db down")
	s.Register("sessions", &stubPurger{err: boom})
	after := &stubPurger{n: 4}
	s.Register("leaderboard", after)

	n, err := s.Tick(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, after.calls)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["purger"] == "sessions" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestTickPurgesRealStores(t *testing.T) {
	s, hook, _ := newTestScheduler(t)
	now := time.Now()
	s.now = func() time.Time { return now.Add(time.Minute) }

	store := session.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &models.Session{ID: "old", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Save(ctx, &models.Session{ID: "live", ExpiresAt: now.Add(time.Hour)}))

	cache := leaderboard.NewMemoryCache(time.Nanosecond)
	require.NoError(t, cache.Put(ctx, "scope", models.PeriodMonthly, leaderboard.Snapshot{}))

	s.Register("sessions", store)
	s.Register("leaderboard", cache)

	n, err := s.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 0, cache.Len())

	remaining := map[any]any{}
	for _, e := range hook.AllEntries() {
		remaining[e.Data["purger"]] = e.Data["remaining"]
	}
	assert.Equal(t, map[any]any{"sessions": 1, "leaderboard": 0}, remaining)
}

func TestHandleTick(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	s.Register("sessions", &stubPurger{n: 7})

	w := httptest.NewRecorder()
	s.HandleTick(w, httptest.NewRequest(http.MethodPost, "/scheduler/tick", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK: purged 7 records", w.Body.String())

	s.Register("sessions", &stubPurger{err: errors.New("nope")})
	w = httptest.NewRecorder()
	s.HandleTick(w, httptest.NewRequest(http.MethodPost, "/scheduler/tick", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	require.Error(t, s.Start("not a schedule"))

	require.NoError(t, s.Start("@every 1h"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
