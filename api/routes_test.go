package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/Madmax-op/FoodShare/apiclient"
	"github.com/Madmax-op/FoodShare/forms"
	"github.com/Madmax-op/FoodShare/leaderboard"
	"github.com/Madmax-op/FoodShare/maps"
	"github.com/Madmax-op/FoodShare/models"
	rh "github.com/Madmax-op/FoodShare/route-handlers"
	"github.com/Madmax-op/FoodShare/scheduler"
	"github.com/Madmax-op/FoodShare/session"
	"github.com/Madmax-op/FoodShare/views"
	"github.com/Madmax-op/FoodShare/webutil"
)

const (
	testToken          = "tok-1"
	testSchedulerToken = "purge-secret"
)

type testApp struct {
	server      *httptest.Server
	client      *http.Client
	store       *session.MemoryStore
	board       atomic.Int32 // leaderboard backend calls
	meRequested atomic.Int32
}

func newBackend(t *testing.T, app *testApp) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid email or password"}`)
			return
		}
		id := int64(7)
		webutil.RespondWithJSON(w, http.StatusOK, models.AuthResponse{Message: "ok", UserID: &id, Token: testToken, Role: "DONOR"})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		app.meRequested.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		webutil.RespondWithJSON(w, http.StatusOK, models.CurrentUser{ID: 7, Name: "Asha Rao", Email: "asha@example.com", Role: "DONOR"})
	})
	mux.HandleFunc("GET /api/leaderboard/{period}", func(w http.ResponseWriter, r *http.Request) {
		app.board.Add(1)
		if r.PathValue("period") != string(models.PeriodMonthly) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		webutil.RespondWithJSON(w, http.StatusOK, []models.LeaderboardEntry{
			{DonorName: "Green Grocer", DonorCategory: "Retailer", DonationAmount: "120 kg", DonationValue: "₹9,000"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log, _ := test.NewNullLogger()
	webutil.SetLogger(log)

	app := &testApp{store: session.NewMemoryStore()}
	backend := newBackend(t, app)

	client := apiclient.New(backend.URL+"/api", 2*time.Second, log)
	sessions := session.NewManager(app.store, time.Hour, false, log)
	renderer, err := views.NewRenderer()
	require.NoError(t, err)

	controller := forms.NewController(client, nil, log)
	board := leaderboard.NewBoard(client, leaderboard.NewMemoryCache(time.Minute), log)
	loader := maps.NewLoader("", "", nil)
	purge := scheduler.New(log)
	purge.Register("sessions", app.store)

	router := SetupRoutes(
		rh.NewAuthHandler(controller, sessions, renderer),
		rh.NewRegisterHandler(controller, renderer, false),
		rh.NewDashboardHandler(controller, sessions, renderer),
		rh.NewLeaderboardHandler(board, renderer),
		rh.NewMapHandler(loader, client, controller, sessions, renderer, log),
		purge.HandleTick,
		testSchedulerToken,
		sessions,
		log,
	)
	app.server = httptest.NewServer(router)
	t.Cleanup(app.server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	app.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return app
}

func (a *testApp) get(t *testing.T, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.server.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/html")
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set(webutil.HeaderContentType, webutil.ContentTypeForm)
	req.Header.Set("Accept", "text/html")
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func parse(t *testing.T, resp *http.Response) *html.Node {
	t.Helper()
	doc, err := html.Parse(resp.Body)
	require.NoError(t, err)
	return doc
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestHealthCheckHasNoSession(t *testing.T) {
	app := newTestApp(t)
	resp := app.get(t, "/healthz")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
	assert.Empty(t, resp.Cookies())
	assert.Zero(t, app.store.Len())
}

func TestIndexStartsAnonymousSession(t *testing.T) {
	app := newTestApp(t)
	resp := app.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1, app.store.Len())

	doc := parse(t, resp)
	name := cascadia.MustCompile("#leaderboard-monthly .donor-name").MatchFirst(doc)
	require.NotNil(t, name)
	assert.Equal(t, "Green Grocer", text(name))

	// The same visitor reuses the cached grid.
	app.get(t, "/leaderboard")
	assert.Equal(t, int32(1), app.board.Load())
	assert.Equal(t, 1, app.store.Len())
}

func TestLeaderboardFragmentFallsBack(t *testing.T) {
	app := newTestApp(t)
	resp := app.get(t, "/leaderboard/yearly")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := parse(t, resp)
	grid := cascadia.MustCompile(".leaderboard-grid").MatchFirst(doc)
	require.NotNil(t, grid)
	assert.Equal(t, "sample", attr(grid, "data-source"))
	assert.Equal(t, "yearly", attr(grid, "data-period"))

	assert.Equal(t, http.StatusNotFound, app.get(t, "/leaderboard/weekly").StatusCode)
	assert.Equal(t, http.StatusNotFound, app.get(t, "/leaderboard?period=weekly").StatusCode)
}

func TestSchedulerTickRequiresToken(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, http.StatusUnauthorized, app.tick(t, "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, app.tick(t, "wrong").StatusCode)
}

func TestUnknownPathIsNotFound(t *testing.T) {
	app := newTestApp(t)
	resp := app.get(t, "/no-such-page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Resource not found")
}

func TestMapAPIIsNotCached(t *testing.T) {
	app := newTestApp(t)
	resp := app.get(t, "/map/api/geocode?address=Pune")
	assert.Equal(t, "no-store", resp.Header.Get(webutil.HeaderCacheControl))
}

func TestLeaderboardPageKeepsLoadedGrids(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusOK, app.get(t, "/leaderboard/yearly").StatusCode)

	resp := app.get(t, "/leaderboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := parse(t, resp)

	assert.Len(t, cascadia.QueryAll(doc, cascadia.MustCompile(".leaderboard-grid")), 2)
	assert.NotNil(t, cascadia.MustCompile("#leaderboard-yearly[hidden]").MatchFirst(doc))
	assert.Nil(t, cascadia.MustCompile("#leaderboard-monthly[hidden]").MatchFirst(doc))

	// Switching back to a loaded period does not refetch it.
	app.get(t, "/leaderboard?period=yearly")
	app.get(t, "/leaderboard")
	assert.Equal(t, int32(2), app.board.Load())
}

func TestLoginDashboardLogout(t *testing.T) {
	app := newTestApp(t)

	resp := app.postForm(t, "/login", url.Values{"email": {"asha@example.com"}, "password": {"secret"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := parse(t, resp)
	refresh := cascadia.MustCompile(`meta[http-equiv="refresh"]`).MatchFirst(doc)
	require.NotNil(t, refresh)
	assert.Equal(t, "1.5; url=/dashboard", attr(refresh, "content"))
	flash := cascadia.MustCompile("#messageContainer").MatchFirst(doc)
	require.NotNil(t, flash)
	assert.Equal(t, forms.MsgLoginSuccess, text(flash))

	resp = app.get(t, "/login")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp = app.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	heading := cascadia.MustCompile(".dashboard h1").MatchFirst(parse(t, resp))
	require.NotNil(t, heading)
	assert.Equal(t, "Hello, Asha Rao", text(heading))
	assert.Equal(t, int32(1), app.meRequested.Load())

	resp = app.postForm(t, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Zero(t, app.store.Len())

	resp = app.get(t, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLoginRejected(t *testing.T) {
	app := newTestApp(t)

	resp := app.postForm(t, "/login", url.Values{"email": {"asha@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	doc := parse(t, resp)
	flash := cascadia.MustCompile("#messageContainer.error").MatchFirst(doc)
	require.NotNil(t, flash)
	assert.Equal(t, "Invalid email or password", text(flash))
	email := cascadia.MustCompile(`input[name="email"]`).MatchFirst(doc)
	require.NotNil(t, email)
	assert.Equal(t, "asha@example.com", attr(email, "value"))
}

func TestMapAPIRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	req, err := http.NewRequest(http.MethodGet, app.server.URL+"/map/api/geocode?address=Pune", nil)
	require.NoError(t, err)
	resp, err := app.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}

func TestMapAPIWithoutKey(t *testing.T) {
	app := newTestApp(t)
	app.postForm(t, "/login", url.Values{"email": {"asha@example.com"}, "password": {"secret"}})

	req, err := http.NewRequest(http.MethodGet, app.server.URL+"/map/api/geocode?address=Pune", nil)
	require.NoError(t, err)
	resp, err := app.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func (a *testApp) tick(t *testing.T, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.server.URL+"/scheduler/tick", nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set(HeaderSchedulerToken, token)
	}
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSchedulerTickAndStatic(t *testing.T) {
	app := newTestApp(t)
	app.get(t, "/")
	require.Equal(t, 1, app.store.Len())

	resp := app.tick(t, testSchedulerToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, app.store.Len())

	resp = app.get(t, "/static/app.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	assert.NotEmpty(t, resp.Header.Get("ETag"))
}
