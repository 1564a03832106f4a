package maps

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	gmaps "googlemaps.github.io/maps"

	"github.com/Madmax-op/FoodShare/models"
)

var ErrTooFewPoints = errors.New("a route needs at least an origin and a destination")

// Bounds is the box that fits every marker.
type Bounds struct {
	NorthEast models.LatLng `json:"northEast"`
	SouthWest models.LatLng `json:"southWest"`
}

type GeocodeResult struct {
	Position         models.LatLng `json:"position"`
	FormattedAddress string        `json:"formattedAddress"`
}

type AddressComponent struct {
	LongName  string   `json:"longName"`
	ShortName string   `json:"shortName"`
	Types     []string `json:"types"`
}

type ReverseGeocodeResult struct {
	FormattedAddress string             `json:"formattedAddress"`
	Components       []AddressComponent `json:"components"`
}

// Overlay tracks the markers and the displayed route of one map, delegating
// routing and geocoding to the mapping service. It is safe for concurrent use.
type Overlay struct {
	loader *Loader
	log    *logrus.Logger

	mu         sync.Mutex
	svc        Service
	markers    []Marker
	directions *RouteSummary
}

func NewOverlay(loader *Loader, log *logrus.Logger) *Overlay {
	return &Overlay{loader: loader, log: log}
}

// Init obtains the mapping service. It must succeed before any other call;
// repeated calls are cheap.
func (o *Overlay) Init(_ context.Context) error {
	svc, err := o.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to initialize maps: %w", err)
	}
	o.mu.Lock()
	o.svc = svc
	o.mu.Unlock()
	return nil
}

func (o *Overlay) service() (Service, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.svc == nil {
		return nil, ErrNotInitialized
	}
	return o.svc, nil
}

func (o *Overlay) AddMarker(pos models.LatLng, title, icon, infoHTML string) (Marker, error) {
	return o.add(Marker{Kind: MarkerPlain, Title: title, Position: pos, Icon: icon, InfoHTML: infoPolicy.Sanitize(infoHTML)})
}

func (o *Overlay) AddNGOMarker(n models.NearbyNGO) (Marker, error) {
	return o.add(Marker{
		Kind:     MarkerNGO,
		Title:    n.Name,
		Position: models.LatLng{Lat: n.Latitude, Lng: n.Longitude},
		Icon:     Icon(MarkerNGO),
		InfoHTML: ngoInfo(n),
	})
}

func (o *Overlay) AddDonorMarker(d models.DonorLocation) (Marker, error) {
	return o.add(Marker{
		Kind:     MarkerDonor,
		Title:    d.Name,
		Position: models.LatLng{Lat: d.Latitude, Lng: d.Longitude},
		Icon:     Icon(MarkerDonor),
		InfoHTML: donorInfo(d),
	})
}

func (o *Overlay) AddDonationMarker(d models.Donation) (Marker, error) {
	return o.add(Marker{
		Kind:     MarkerDonation,
		Title:    "Food Donation",
		Position: models.LatLng{Lat: d.Latitude, Lng: d.Longitude},
		Icon:     Icon(MarkerDonation),
		InfoHTML: donationInfo(d),
	})
}

func (o *Overlay) add(m Marker) (Marker, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.svc == nil {
		return Marker{}, ErrNotInitialized
	}
	o.markers = append(o.markers, m)
	return m, nil
}

func (o *Overlay) ClearMarkers() {
	o.mu.Lock()
	o.markers = nil
	o.mu.Unlock()
}

// Markers returns a copy of the live marker list, in insertion order.
func (o *Overlay) Markers() []Marker {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Marker, len(o.markers))
	copy(out, o.markers)
	return out
}

// MarkerSet is the content of one map refresh.
type MarkerSet struct {
	NGOs      []models.NearbyNGO
	Donors    []models.DonorLocation
	Donations []models.Donation
}

// Refresh replaces every marker with those in set.
func (o *Overlay) Refresh(set MarkerSet) error {
	if _, err := o.service(); err != nil {
		return err
	}
	o.ClearMarkers()
	for _, n := range set.NGOs {
		if _, err := o.AddNGOMarker(n); err != nil {
			return err
		}
	}
	for _, d := range set.Donors {
		if _, err := o.AddDonorMarker(d); err != nil {
			return err
		}
	}
	for _, d := range set.Donations {
		if _, err := o.AddDonationMarker(d); err != nil {
			return err
		}
	}
	return nil
}

// Bounds reports the box that fits all markers; ok is false with no markers.
func (o *Overlay) Bounds() (b Bounds, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.markers) == 0 {
		return Bounds{}, false
	}
	first := o.markers[0].Position
	b = Bounds{NorthEast: first, SouthWest: first}
	for _, m := range o.markers[1:] {
		p := m.Position
		b.NorthEast.Lat = max(b.NorthEast.Lat, p.Lat)
		b.NorthEast.Lng = max(b.NorthEast.Lng, p.Lng)
		b.SouthWest.Lat = min(b.SouthWest.Lat, p.Lat)
		b.SouthWest.Lng = min(b.SouthWest.Lng, p.Lng)
	}
	return b, true
}

// GetOptimizedRoute drives from the first point to the last, visiting the
// points in between in the order the service finds best.
func (o *Overlay) GetOptimizedRoute(ctx context.Context, points []models.LatLng) (*RouteSummary, error) {
	svc, err := o.service()
	if err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}

	req := &gmaps.DirectionsRequest{
		Origin:      latLngString(points[0]),
		Destination: latLngString(points[len(points)-1]),
		Mode:        gmaps.TravelModeDriving,
	}
	if stops := points[1 : len(points)-1]; len(stops) > 0 {
		req.Optimize = true
		for _, p := range stops {
			req.Waypoints = append(req.Waypoints, latLngString(p))
		}
	}
	return o.route(ctx, svc, req)
}

// GetFastestRoute asks for a route between two places, each either an
// address or "lat,lng". See ParseTravelMode for mode.
func (o *Overlay) GetFastestRoute(ctx context.Context, origin, destination, mode string) (*RouteSummary, error) {
	svc, err := o.service()
	if err != nil {
		return nil, err
	}
	return o.route(ctx, svc, &gmaps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        ParseTravelMode(mode),
	})
}

func (o *Overlay) route(ctx context.Context, svc Service, req *gmaps.DirectionsRequest) (*RouteSummary, error) {
	routes, _, err := svc.Directions(ctx, req)
	if err != nil {
		o.log.WithError(err).WithField("mode", req.Mode).Error("error getting route")
		return nil, err
	}
	summary, err := summarize(routes)
	if err != nil {
		return nil, err
	}
	o.mu.Lock()
	o.directions = summary
	o.mu.Unlock()
	return summary, nil
}

// Directions returns the route currently displayed, if any.
func (o *Overlay) Directions() *RouteSummary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.directions
}

func (o *Overlay) ClearDirections() {
	o.mu.Lock()
	o.directions = nil
	o.mu.Unlock()
}

func (o *Overlay) GeocodeAddress(ctx context.Context, address string) (GeocodeResult, error) {
	svc, err := o.service()
	if err != nil {
		return GeocodeResult{}, err
	}
	results, err := svc.Geocode(ctx, &gmaps.GeocodingRequest{Address: address})
	if err != nil {
		return GeocodeResult{}, err
	}
	if len(results) == 0 {
		return GeocodeResult{}, fmt.Errorf("geocoding %q: %w", address, ErrNoResults)
	}
	loc := results[0].Geometry.Location
	return GeocodeResult{
		Position:         models.LatLng{Lat: loc.Lat, Lng: loc.Lng},
		FormattedAddress: results[0].FormattedAddress,
	}, nil
}

func (o *Overlay) ReverseGeocode(ctx context.Context, pos models.LatLng) (ReverseGeocodeResult, error) {
	svc, err := o.service()
	if err != nil {
		return ReverseGeocodeResult{}, err
	}
	results, err := svc.ReverseGeocode(ctx, &gmaps.GeocodingRequest{
		LatLng: &gmaps.LatLng{Lat: pos.Lat, Lng: pos.Lng},
	})
	if err != nil {
		return ReverseGeocodeResult{}, err
	}
	if len(results) == 0 {
		return ReverseGeocodeResult{}, fmt.Errorf("reverse geocoding %s: %w", latLngString(pos), ErrNoResults)
	}

	out := ReverseGeocodeResult{FormattedAddress: results[0].FormattedAddress}
	for _, c := range results[0].AddressComponents {
		out.Components = append(out.Components, AddressComponent{
			LongName:  c.LongName,
			ShortName: c.ShortName,
			Types:     c.Types,
		})
	}
	return out, nil
}
