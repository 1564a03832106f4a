package maps

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Madmax-op/FoodShare/models"
)

type MarkerKind string

const (
	MarkerPlain    MarkerKind = "plain"
	MarkerNGO      MarkerKind = "ngo"
	MarkerDonor    MarkerKind = "donor"
	MarkerDonation MarkerKind = "donation"
)

const (
	IconSize   = 32
	IconAnchor = 16
)

// Marker is one pin on the map as the page script consumes it.
type Marker struct {
	Kind     MarkerKind    `json:"kind"`
	Title    string        `json:"title"`
	Position models.LatLng `json:"position"`
	Icon     string        `json:"icon,omitempty"`
	InfoHTML string        `json:"infoHtml,omitempty"`
}

const iconSVG = `<svg width="32" height="32" viewBox="0 0 32 32" xmlns="http://www.w3.org/2000/svg">` +
	`<circle cx="16" cy="16" r="14" fill="%s" stroke="#ffffff" stroke-width="2"/>` +
	`<text x="16" y="20" text-anchor="middle" fill="white" font-size="12" font-weight="bold">%s</text>` +
	`</svg>`

var icons = map[MarkerKind]string{
	MarkerNGO:      iconURL("#10b981", "N"),
	MarkerDonor:    iconURL("#3b82f6", "D"),
	MarkerDonation: iconURL("#f59e0b", "🍽️"),
}

func iconURL(fill, glyph string) string {
	return "data:image/svg+xml;charset=UTF-8," + url.PathEscape(fmt.Sprintf(iconSVG, fill, glyph))
}

// Icon returns the data URL for kind, or "" for the service's default pin.
func Icon(kind MarkerKind) string {
	return icons[kind]
}

var infoTemplate = template.Must(template.New("info").Parse(
	`<div class="info-window"><h3>{{.Heading}}</h3>` +
		`{{range .Rows}}<p><strong>{{.Label}}:</strong> {{.Value}}</p>{{end}}` +
		`{{with .Action}}<button class="btn {{.Class}}" data-action="{{.Name}}" data-id="{{.ID}}">{{.Label}}</button>{{end}}` +
		`</div>`))

// infoPolicy is the markup an info window may carry; anything else produced
// from remote data is dropped.
var infoPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("div", "h3", "p", "strong")
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("data-action", "data-id").OnElements("button")
	p.AllowElements("button")
	return p
}()

type infoRow struct {
	Label string
	Value string
}

type infoAction struct {
	Name  string
	ID    string
	Label string
	Class string
}

type infoContent struct {
	Heading string
	Rows    []infoRow
	Action  *infoAction
}

func renderInfo(c infoContent) string {
	var buf bytes.Buffer
	if err := infoTemplate.Execute(&buf, c); err != nil {
		// Only fails on writer errors, which a bytes.Buffer does not produce.
		return ""
	}
	return infoPolicy.Sanitize(buf.String())
}

func ngoInfo(n models.NearbyNGO) string {
	return renderInfo(infoContent{
		Heading: n.Name,
		Rows: []infoRow{
			{"Type", n.OrganizationType},
			{"Phone", n.Phone},
			{"Address", n.City},
		},
		Action: &infoAction{Name: "select-ngo", ID: strconv.FormatInt(n.ID, 10), Label: "Select NGO", Class: "btn-primary"},
	})
}

func donorInfo(d models.DonorLocation) string {
	return renderInfo(infoContent{
		Heading: d.Name,
		Rows: []infoRow{
			{"Type", d.DonorType},
			{"Phone", d.Phone},
			{"Address", d.City},
		},
		Action: &infoAction{Name: "select-donor", ID: strconv.FormatInt(d.ID, 10), Label: "View Details", Class: "btn-primary"},
	})
}

const expiryLayout = "02 Jan 2006, 15:04"

func donationInfo(d models.Donation) string {
	return renderInfo(infoContent{
		Heading: "Food Donation",
		Rows: []infoRow{
			{"Type", d.FoodType},
			{"Quantity", strconv.FormatFloat(d.Quantity, 'f', -1, 64) + " kg"},
			{"Expires", d.ExpiryTime.Format(expiryLayout)},
		},
		Action: &infoAction{Name: "accept-donation", ID: strconv.FormatInt(d.ID, 10), Label: "Accept", Class: "btn-success"},
	})
}
