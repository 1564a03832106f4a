package routehandlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/Madmax-op/FoodShare/apiclient"
	"github.com/Madmax-op/FoodShare/forms"
	"github.com/Madmax-op/FoodShare/maps"
	"github.com/Madmax-op/FoodShare/models"
	"github.com/Madmax-op/FoodShare/session"
	"github.com/Madmax-op/FoodShare/validation"
	"github.com/Madmax-op/FoodShare/views"
	"github.com/Madmax-op/FoodShare/webutil"
)

const (
	defaultRadiusKm = 10.0
	maxRadiusKm     = 100.0

	headingNearbyNGOs   = "Nearby NGOs"
	headingNearbyDonors = "Nearby donors"

	noticeMapUnavailable     = "The interactive map is not available right now."
	noticeNearbyFailed       = "Nearby NGOs could not be loaded."
	noticeNearbyDonorsFailed = "Nearby donors could not be loaded."
)

// NearbyAPI lists what the signed-in user's map plots around them.
type NearbyAPI interface {
	GetNearbyNGOs(ctx context.Context, token string, pos models.LatLng, radiusKm float64) (apiclient.Result[[]models.NearbyNGO], error)
	GetNearbyDonors(ctx context.Context, token string, pos models.LatLng, radiusKm float64) (apiclient.Result[[]models.DonorLocation], error)
	GetDonations(ctx context.Context, token string) (apiclient.Result[[]models.Donation], error)
}

type MapHandler struct {
	Loader   *maps.Loader
	API      NearbyAPI
	Forms    *forms.Controller
	Sessions *session.Manager
	Views    *views.Renderer
	Log      *logrus.Logger
}

// NewMapHandler wires the map page and its JSON endpoints.
func NewMapHandler(loader *maps.Loader, api NearbyAPI, fc *forms.Controller, sessions *session.Manager, renderer *views.Renderer, log *logrus.Logger) *MapHandler {
	return &MapHandler{Loader: loader, API: api, Forms: fc, Sessions: sessions, Views: renderer, Log: log}
}

// HandleMapPage plots the signed-in user with what is around them: donors see
// nearby NGOs and their own donations, NGOs see nearby donors.
func (h *MapHandler) HandleMapPage(w http.ResponseWriter, r *http.Request) error {
	s, err := requestSession(r)
	if err != nil {
		return err
	}

	user := s.CurrentUser
	if user == nil {
		out, u := h.Forms.LoadCurrentUser(r.Context(), s)
		if err := persist(h.Sessions, w, r, s, out); err != nil {
			return fmt.Errorf("failed to store session: %w", err)
		}
		if out.Redirecting() {
			webutil.Redirect(w, r, out.RedirectTo)
			return nil
		}
		user = u
	}

	page := views.MapPage{
		Page:    basePage(s, "Map", views.NavMap),
		Heading: headingNearbyNGOs,
		Center:  user.Location(),
	}
	if s.UserRole() == models.RoleNGO {
		page.Heading = headingNearbyDonors
	}

	overlay := maps.NewOverlay(h.Loader, h.Log)
	if err := overlay.Init(r.Context()); err != nil {
		h.Log.WithError(err).Warn("map overlay unavailable")
		page.Notice = noticeMapUnavailable
		return h.Views.Render(w, http.StatusOK, views.PageMap, page)
	}
	page.ScriptURL = h.Loader.ScriptURL()

	set, notice := h.markersFor(r.Context(), s, user, radiusParam(r))
	page.Notice = notice

	if err := overlay.Refresh(set); err != nil {
		return fmt.Errorf("failed to place markers: %w", err)
	}
	if _, err := overlay.AddMarker(user.Location(), "You are here", "", ""); err != nil {
		return fmt.Errorf("failed to place user marker: %w", err)
	}

	page.Markers = overlay.Markers()
	if b, ok := overlay.Bounds(); ok {
		page.Bounds = &b
	}
	return h.Views.Render(w, http.StatusOK, views.PageMap, page)
}

// markersFor loads the marker set for the user's role. A failed lookup leaves
// its markers out and yields a notice for the page.
func (h *MapHandler) markersFor(ctx context.Context, s *models.Session, user *models.CurrentUser, radius float64) (maps.MarkerSet, string) {
	var set maps.MarkerSet
	pos := user.Location()

	if s.UserRole() == models.RoleNGO {
		res, err := h.API.GetNearbyDonors(ctx, s.Token, pos, radius)
		if h.lookupFailed("nearby donors", res.Success, res.Message, err) {
			return set, noticeNearbyDonorsFailed
		}
		set.Donors = res.Data
		return set, ""
	}

	notice := ""
	ngos, err := h.API.GetNearbyNGOs(ctx, s.Token, pos, radius)
	if h.lookupFailed("nearby NGOs", ngos.Success, ngos.Message, err) {
		notice = noticeNearbyFailed
	} else {
		set.NGOs = ngos.Data
	}

	donations, err := h.API.GetDonations(ctx, s.Token)
	if !h.lookupFailed("donations", donations.Success, donations.Message, err) {
		for _, d := range donations.Data {
			// Donations are picked up at the donor's address.
			if d.Latitude == 0 && d.Longitude == 0 {
				d.Latitude, d.Longitude = pos.Lat, pos.Lng
			}
			set.Donations = append(set.Donations, d)
		}
	}
	return set, notice
}

func (h *MapHandler) lookupFailed(what string, ok bool, message string, err error) bool {
	switch {
	case err != nil:
		h.Log.WithError(err).Errorf("error fetching %s", what)
	case !ok:
		h.Log.WithField("message", message).Warnf("%s lookup rejected", what)
	default:
		return false
	}
	return true
}

func radiusParam(r *http.Request) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get("radius"), 64)
	if err != nil || v <= 0 {
		return defaultRadiusKm
	}
	return min(v, maxRadiusKm)
}

// overlayFor returns an initialized overlay for a JSON request by a
// signed-in user.
func (h *MapHandler) overlayFor(r *http.Request) (*maps.Overlay, error) {
	s, err := requestSession(r)
	if err != nil {
		return nil, err
	}
	if !s.Authenticated() {
		return nil, webutil.ErrUnauthorized("Please log in to use the map")
	}
	overlay := maps.NewOverlay(h.Loader, h.Log)
	if err := overlay.Init(r.Context()); err != nil {
		if errors.Is(err, maps.ErrNotConfigured) {
			return nil, webutil.ErrServiceUnavailable("Mapping service is not configured")
		}
		return nil, webutil.ErrBadGatewayWrap("", err)
	}
	return overlay, nil
}

// serviceError maps overlay errors onto HTTP errors.
func serviceError(err error) error {
	switch {
	case errors.Is(err, maps.ErrNoResults):
		return webutil.ErrNotFoundWrap("No results found", err)
	case errors.Is(err, maps.ErrTooFewPoints):
		return webutil.ErrBadRequest(err.Error())
	case errors.Is(err, context.Canceled):
		return err
	default:
		return webutil.ErrBadGatewayWrap("", err)
	}
}

func (h *MapHandler) HandleFastestRoute(w http.ResponseWriter, r *http.Request) error {
	overlay, err := h.overlayFor(r)
	if err != nil {
		return err
	}
	q := r.URL.Query()
	origin, destination := q.Get("origin"), q.Get("destination")
	if origin == "" || destination == "" {
		return webutil.ErrBadRequest("origin and destination are required")
	}

	route, err := overlay.GetFastestRoute(r.Context(), origin, destination, q.Get("mode"))
	if err != nil {
		return serviceError(err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, route)
	return nil
}

type optimizedRouteRequest struct {
	Points []models.LatLng `json:"points"`
}

func (h *MapHandler) HandleOptimizedRoute(w http.ResponseWriter, r *http.Request) error {
	overlay, err := h.overlayFor(r)
	if err != nil {
		return err
	}

	var req optimizedRouteRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	for _, p := range req.Points {
		if !validation.IsValidCoordinates(p.Lat, p.Lng) {
			return webutil.ErrBadRequest(validation.MsgInvalidCoords)
		}
	}

	route, err := overlay.GetOptimizedRoute(r.Context(), req.Points)
	if err != nil {
		return serviceError(err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, route)
	return nil
}

func (h *MapHandler) HandleGeocode(w http.ResponseWriter, r *http.Request) error {
	overlay, err := h.overlayFor(r)
	if err != nil {
		return err
	}
	address := r.URL.Query().Get("address")
	if address == "" {
		return webutil.ErrBadRequest("address is required")
	}

	res, err := overlay.GeocodeAddress(r.Context(), address)
	if err != nil {
		return serviceError(err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, res)
	return nil
}

func (h *MapHandler) HandleReverseGeocode(w http.ResponseWriter, r *http.Request) error {
	overlay, err := h.overlayFor(r)
	if err != nil {
		return err
	}
	q := r.URL.Query()
	lat, latOK := validation.ParseCoordinate(q.Get("lat"))
	lng, lngOK := validation.ParseCoordinate(q.Get("lng"))
	if !latOK || !lngOK || !validation.IsValidCoordinates(lat, lng) {
		return webutil.ErrBadRequest(validation.MsgInvalidCoords)
	}

	res, err := overlay.ReverseGeocode(r.Context(), models.LatLng{Lat: lat, Lng: lng})
	if err != nil {
		return serviceError(err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, res)
	return nil
}
