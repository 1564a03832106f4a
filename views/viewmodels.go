package views

import (
	"encoding/json"
	"html/template"
	"net/url"
	"time"

	"github.com/Madmax-op/FoodShare/forms"
	"github.com/Madmax-op/FoodShare/leaderboard"
	"github.com/Madmax-op/FoodShare/maps"
	"github.com/Madmax-op/FoodShare/models"
)

// Navigation keys for Page.Active.
const (
	NavHome        = "home"
	NavLogin       = "login"
	NavRegister    = "register"
	NavDashboard   = "dashboard"
	NavLeaderboard = "leaderboard"
	NavMap         = "map"
)

type Flash struct {
	Kind    forms.Kind
	Message string
}

// Page carries what the layout needs on every page.
type Page struct {
	Title         string
	Active        string
	Authenticated bool
	Flash         *Flash
	// RefreshURL, when set, navigates there after RefreshAfter.
	RefreshURL   string
	RefreshAfter time.Duration
}

// Apply copies the banner and pending redirect of an outcome onto the page.
func (p *Page) Apply(o forms.Outcome) {
	if o.Message != "" {
		p.Flash = &Flash{Kind: o.Kind, Message: o.Message}
	}
	if o.RedirectTo != "" && o.RedirectAfter > 0 {
		p.RefreshURL = o.RedirectTo
		p.RefreshAfter = o.RedirectAfter
	}
}

// FormState is one form's echoed values and inline errors.
type FormState struct {
	Values      url.Values
	FieldErrors map[string]string
	Loading     bool
}

func StateFrom(o forms.Outcome) FormState {
	return FormState{Values: o.Values, FieldErrors: o.FieldErrors, Loading: o.Loading}
}

type LoginPage struct {
	Page
	Form FormState
}

type Option struct {
	Value string
	Label string
}

var DonorTypes = []Option{
	{"RESTAURANT", "Restaurant"},
	{"HOTEL", "Hotel"},
	{"STUDENT_HOSTEL", "Student Hostel"},
	{"CATERER", "Caterer"},
	{"BAKERY", "Bakery"},
	{"GROCERY", "Grocery Store"},
	{"INDIVIDUAL", "Individual"},
	{"OTHER", "Other"},
}

var OrganizationTypes = []Option{
	{"FOOD_BANK", "Food Bank"},
	{"SHELTER", "Shelter"},
	{"ORPHANAGE", "Orphanage"},
	{"OLD_AGE_HOME", "Old Age Home"},
	{"COMMUNITY_KITCHEN", "Community Kitchen"},
	{"OTHER", "Other"},
}

type RegisterPage struct {
	Page
	Tab               models.RegistrantKind
	Donor             FormState
	NGO               FormState
	DonorTypes        []Option
	OrganizationTypes []Option
	CanLocate         bool
}

func (p RegisterPage) DonorActive() bool { return p.Tab != models.RegistrantNGO }

type DashboardPage struct {
	Page
	User models.CurrentUser
}

type Tab struct {
	Period models.Period
	Label  string
	Active bool
}

// LeaderboardPage carries every grid loaded so far in the session. Only the
// active period's grid is visible.
type LeaderboardPage struct {
	Page
	Tabs  []Tab
	Grids []leaderboard.Grid
}

// NewLeaderboardPage builds the page with active selected and the other
// loaded grids hidden.
func NewLeaderboardPage(page Page, active models.Period, loaded []leaderboard.Grid) LeaderboardPage {
	grids := make([]leaderboard.Grid, 0, len(loaded))
	for _, g := range loaded {
		g.Hidden = g.Period != active
		grids = append(grids, g)
	}
	return LeaderboardPage{Page: page, Tabs: Tabs(active), Grids: grids}
}

func Tabs(active models.Period) []Tab {
	tabs := make([]Tab, 0, len(models.Periods()))
	for _, p := range models.Periods() {
		tabs = append(tabs, Tab{Period: p, Label: p.Label(), Active: p == active})
	}
	return tabs
}

// IndexPage is the landing page with the monthly leaderboard preview.
type IndexPage struct {
	Page
	Leaderboard leaderboard.Grid
}

type MapPage struct {
	Page
	Heading   string
	ScriptURL string
	Center    models.LatLng
	Markers   []maps.Marker
	Bounds    *maps.Bounds
	Notice    string
}

// MapConfig is the JSON the map script boots from.
func (p MapPage) MapConfig() (template.JS, error) {
	cfg := struct {
		Center     models.LatLng `json:"center"`
		Zoom       int           `json:"zoom"`
		Markers    []maps.Marker `json:"markers"`
		Bounds     *maps.Bounds  `json:"bounds,omitempty"`
		IconSize   int           `json:"iconSize"`
		IconAnchor int           `json:"iconAnchor"`
	}{p.Center, 12, p.Markers, p.Bounds, maps.IconSize, maps.IconAnchor}
	if cfg.Markers == nil {
		cfg.Markers = []maps.Marker{}
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	// json.Marshal escapes <, > and & so the result is safe inside a script.
	return template.JS(raw), nil
}
