package maps

import (
	"context"
	"errors"

	gmaps "googlemaps.github.io/maps"
)

var (
	ErrNotInitialized = errors.New("maps not initialized")
	ErrNotConfigured  = errors.New("maps API key not configured")
	ErrNoResults      = errors.New("no results")
)

// Service is the part of the mapping web service the overlay uses.
// *gmaps.Client implements it.
type Service interface {
	Directions(ctx context.Context, r *gmaps.DirectionsRequest) ([]gmaps.Route, []gmaps.GeocodedWaypoint, error)
	Geocode(ctx context.Context, r *gmaps.GeocodingRequest) ([]gmaps.GeocodingResult, error)
	ReverseGeocode(ctx context.Context, r *gmaps.GeocodingRequest) ([]gmaps.GeocodingResult, error)
}

var _ Service = (*gmaps.Client)(nil)
