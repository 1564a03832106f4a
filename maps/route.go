package maps

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jaytaylor/html2text"
	gmaps "googlemaps.github.io/maps"

	"github.com/Madmax-op/FoodShare/models"
)

// ParseTravelMode maps a user supplied mode to the service's mode. Unknown or
// empty input means driving.
func ParseTravelMode(mode string) gmaps.Mode {
	switch m := gmaps.Mode(strings.ToLower(strings.TrimSpace(mode))); m {
	case gmaps.TravelModeDriving, gmaps.TravelModeWalking, gmaps.TravelModeBicycling, gmaps.TravelModeTransit:
		return m
	default:
		return gmaps.TravelModeDriving
	}
}

type RouteStep struct {
	Instruction string `json:"instruction"`
	Distance    string `json:"distance"`
	Duration    string `json:"duration"`
}

// RouteSummary describes the first leg of the first route returned.
type RouteSummary struct {
	Distance      string      `json:"distance"`
	Duration      string      `json:"duration"`
	StartAddress  string      `json:"startAddress"`
	EndAddress    string      `json:"endAddress"`
	Polyline      string      `json:"polyline"`
	Steps         []RouteStep `json:"steps"`
	WaypointOrder []int       `json:"waypointOrder,omitempty"`
}

func summarize(routes []gmaps.Route) (*RouteSummary, error) {
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, fmt.Errorf("directions: %w", ErrNoResults)
	}
	route := routes[0]
	leg := route.Legs[0]

	s := &RouteSummary{
		Distance:      leg.Distance.HumanReadable,
		Duration:      FormatDuration(leg.Duration),
		StartAddress:  leg.StartAddress,
		EndAddress:    leg.EndAddress,
		Polyline:      route.OverviewPolyline.Points,
		Steps:         make([]RouteStep, 0, len(leg.Steps)),
		WaypointOrder: route.WaypointOrder,
	}
	for _, step := range leg.Steps {
		if step == nil {
			continue
		}
		s.Steps = append(s.Steps, RouteStep{
			Instruction: plainInstruction(step.HTMLInstructions),
			Distance:    step.Distance.HumanReadable,
			Duration:    FormatDuration(step.Duration),
		})
	}
	return s, nil
}

// plainInstruction renders the service's HTML step text as one line of text.
func plainInstruction(htmlText string) string {
	text, err := html2text.FromString(htmlText, html2text.Options{OmitLinks: true})
	if err != nil {
		text = htmlText
	}
	return strings.Join(strings.Fields(text), " ")
}

// FormatDuration renders d the way the directions service words durations:
// "1 min", "25 mins", "1 hour 5 mins", "2 days 3 hours".
func FormatDuration(d time.Duration) string {
	mins := int((d + 30*time.Second) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	days, hours := mins/(24*60), (mins/60)%24
	mins %= 60

	switch {
	case days > 0:
		return joinUnits(unit(days, "day"), unit(hours, "hour"))
	case hours > 0:
		return joinUnits(unit(hours, "hour"), unit(mins, "min"))
	default:
		return unit(mins, "min")
	}
}

func unit(n int, name string) string {
	if n == 0 {
		return ""
	}
	if n == 1 {
		return "1 " + name
	}
	return strconv.Itoa(n) + " " + name + "s"
}

func joinUnits(major, minor string) string {
	if minor == "" {
		return major
	}
	return major + " " + minor
}

func latLngString(p models.LatLng) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}
