package maps

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"

	gmaps "googlemaps.github.io/maps"
)

const scriptBaseURL = "https://maps.googleapis.com/maps/api/js"

// Loader builds the mapping client on first use and hands the same client
// (or the same construction error) to every later caller.
type Loader struct {
	apiKey string
	build  func() (Service, error)

	once sync.Once
	svc  Service
	err  error
}

// NewLoader returns a Loader for the hosted web service. baseURL overrides the
// service host and is meant for tests; leave it empty otherwise.
func NewLoader(apiKey, baseURL string, httpClient *http.Client) *Loader {
	return &Loader{
		apiKey: apiKey,
		build: func() (Service, error) {
			if apiKey == "" {
				return nil, ErrNotConfigured
			}
			opts := []gmaps.ClientOption{gmaps.WithAPIKey(apiKey)}
			if baseURL != "" {
				opts = append(opts, gmaps.WithBaseURL(baseURL))
			}
			if httpClient != nil {
				opts = append(opts, gmaps.WithHTTPClient(httpClient))
			}
			c, err := gmaps.NewClient(opts...)
			if err != nil {
				return nil, fmt.Errorf("failed to create maps client: %w", err)
			}
			return c, nil
		},
	}
}

// NewStaticLoader wraps an existing Service.
func NewStaticLoader(apiKey string, svc Service) *Loader {
	return &Loader{
		apiKey: apiKey,
		build:  func() (Service, error) { return svc, nil },
	}
}

func (l *Loader) Load() (Service, error) {
	l.once.Do(func() {
		l.svc, l.err = l.build()
	})
	return l.svc, l.err
}

func (l *Loader) Configured() bool {
	return l != nil && l.apiKey != ""
}

// ScriptURL is the browser script URL for the interactive map.
func (l *Loader) ScriptURL() string {
	// url.Values would escape the comma in the libraries list.
	return scriptBaseURL + "?key=" + url.QueryEscape(l.apiKey) + "&libraries=places,geometry"
}
