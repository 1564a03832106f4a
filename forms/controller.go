package forms

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Madmax-op/FoodShare/apiclient"
	"github.com/Madmax-op/FoodShare/maps"
	"github.com/Madmax-op/FoodShare/models"
	"github.com/Madmax-op/FoodShare/validation"
)

const (
	MsgLoginSuccess        = "Login successful! Redirecting..."
	MsgLoginRetry          = "Login failed. Please try again."
	MsgRegistrationSuccess = "Registration successful! Please log in."
	MsgRegistrationRetry   = "Registration failed. Please try again."
	MsgLocationFilled      = "Location detected and filled automatically!"
	MsgLocationFailed      = "Could not detect location. Please enter coordinates manually."
	MsgLocationUnavailable = "Location lookup is not available. Please enter coordinates manually."
)

const (
	PathHome      = "/"
	PathLogin     = "/login"
	PathDashboard = "/dashboard"

	LoginRedirectDelay    = 1500 * time.Millisecond
	RegisterRedirectDelay = 2 * time.Second
)

// AuthAPI is the remote API surface the forms need.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (apiclient.Result[models.AuthResponse], error)
	RegisterDonor(ctx context.Context, d models.DonorRegistration) (apiclient.Result[models.AuthResponse], error)
	RegisterNGO(ctx context.Context, n models.NGORegistration) (apiclient.Result[models.AuthResponse], error)
	GetCurrentUser(ctx context.Context, token string) (apiclient.Result[models.CurrentUser], error)
}

// Locator resolves a place name to coordinates.
type Locator interface {
	GeocodeAddress(ctx context.Context, address string) (maps.GeocodeResult, error)
}

type Controller struct {
	api     AuthAPI
	locator Locator
	log     *logrus.Logger
}

// NewController returns a form controller. locator may be nil when no mapping
// service is configured.
func NewController(api AuthAPI, locator Locator, log *logrus.Logger) *Controller {
	return &Controller{api: api, locator: locator, log: log}
}

// GuardAuthPage sends visitors who already hold a token to the dashboard.
func GuardAuthPage(s *models.Session) (Outcome, bool) {
	if !s.Authenticated() {
		return Outcome{}, false
	}
	return Outcome{RedirectTo: PathDashboard}, true
}

func (c *Controller) Login(ctx context.Context, s *models.Session, form url.Values) Outcome {
	creds := models.Credentials{
		Email:    form.Get("email"),
		Password: form.Get("password"),
	}
	values := keep(form, "email")

	if verr := validation.ValidateLogin(creds); verr != nil {
		return invalid(verr, values)
	}

	res, err := c.api.Login(ctx, creds)
	if err != nil {
		c.log.WithError(err).Error("login error")
		return failure(MsgLoginRetry, values)
	}
	if !res.Success {
		return failure(orDefault(res.Message, apiclient.MsgLoginFailed), values)
	}

	s.SetAuth(res.Data)
	return Outcome{
		Kind:           KindSuccess,
		Message:        MsgLoginSuccess,
		RedirectTo:     PathDashboard,
		RedirectAfter:  LoginRedirectDelay,
		Loading:        true,
		Values:         values,
		SessionChanged: true,
	}
}

func (c *Controller) RegisterDonor(ctx context.Context, form url.Values) Outcome {
	profile, coords := readProfile(form)
	d := models.DonorRegistration{Profile: profile, DonorType: strings.TrimSpace(form.Get("donorType"))}
	values := keep(form, DonorFields()...)

	if verr := validation.ValidateDonor(d, coords); verr != nil {
		return invalid(verr, values)
	}
	res, err := c.api.RegisterDonor(ctx, d)
	return c.registered(res, err, values)
}

func (c *Controller) RegisterNGO(ctx context.Context, form url.Values) Outcome {
	profile, coords := readProfile(form)
	n := models.NGORegistration{Profile: profile, OrganizationType: strings.TrimSpace(form.Get("organizationType"))}
	values := keep(form, NGOFields()...)

	if verr := validation.ValidateNGO(n, coords); verr != nil {
		return invalid(verr, values)
	}
	res, err := c.api.RegisterNGO(ctx, n)
	return c.registered(res, err, values)
}

func (c *Controller) registered(res apiclient.Result[models.AuthResponse], err error, values url.Values) Outcome {
	if err != nil {
		c.log.WithError(err).Error("registration error")
		return failure(MsgRegistrationRetry, values)
	}
	if !res.Success {
		return failure(orDefault(res.Message, apiclient.MsgRegistrationFailed), values)
	}
	// The form is reset on success.
	return Outcome{
		Kind:          KindSuccess,
		Message:       MsgRegistrationSuccess,
		RedirectTo:    PathLogin,
		RedirectAfter: RegisterRedirectDelay,
		Loading:       true,
	}
}

// Locate fills the latitude and longitude fields from the city field.
func (c *Controller) Locate(ctx context.Context, form url.Values, fields ...string) Outcome {
	values := keep(form, fields...)
	if c.locator == nil {
		// Coordinates can still be entered by hand.
		return Outcome{Kind: KindInfo, Message: MsgLocationUnavailable, Values: values}
	}

	city := strings.TrimSpace(form.Get("city"))
	if city == "" {
		out := failure(MsgLocationFailed, values)
		out.FieldErrors = map[string]string{"city": validation.MsgFieldRequired}
		return out
	}

	res, err := c.locator.GeocodeAddress(ctx, city)
	if err != nil {
		level := logrus.ErrorLevel
		if errors.Is(err, maps.ErrNoResults) {
			level = logrus.InfoLevel
		}
		c.log.WithError(err).WithField("city", city).Log(level, "error getting location")
		return failure(MsgLocationFailed, values)
	}

	values.Set("latitude", strconv.FormatFloat(res.Position.Lat, 'f', 6, 64))
	values.Set("longitude", strconv.FormatFloat(res.Position.Lng, 'f', 6, 64))
	return Outcome{Kind: KindSuccess, Message: MsgLocationFilled, Values: values}
}

func (c *Controller) Logout(s *models.Session) Outcome {
	s.ClearAuth()
	return Outcome{RedirectTo: PathHome, SessionChanged: true}
}

// LoadCurrentUser fetches the profile behind the session's token. Any failure
// logs the visitor out.
func (c *Controller) LoadCurrentUser(ctx context.Context, s *models.Session) (Outcome, *models.CurrentUser) {
	if !s.Authenticated() {
		return Outcome{RedirectTo: PathLogin}, nil
	}

	res, err := c.api.GetCurrentUser(ctx, s.Token)
	switch {
	case err != nil:
		c.log.WithError(err).Error("error fetching user data")
	case !res.Success:
		c.log.WithField("message", res.Message).Warn("user lookup rejected")
	default:
		user := res.Data
		s.CurrentUser = &user
		return Outcome{SessionChanged: true}, &user
	}

	return c.Logout(s), nil
}

func readProfile(form url.Values) (models.Profile, validation.Coordinates) {
	lat, latOK := validation.ParseCoordinate(form.Get("latitude"))
	lng, lngOK := validation.ParseCoordinate(form.Get("longitude"))
	return models.Profile{
		Name:        strings.TrimSpace(form.Get("name")),
		Email:       form.Get("email"),
		Phone:       form.Get("phone"),
		City:        strings.TrimSpace(form.Get("city")),
		Latitude:    lat,
		Longitude:   lng,
		Password:    form.Get("password"),
		Description: strings.TrimSpace(form.Get("description")),
	}, validation.Coordinates{LatitudeSet: latOK, LongitudeSet: lngOK}
}

// profileFields lists the registration fields echoed back to the form.
// Passwords are never echoed.
func profileFields(extra ...string) []string {
	return append([]string{"name", "email", "phone", "city", "latitude", "longitude", "description"}, extra...)
}

// DonorFields and NGOFields are the echoed fields of each registration form.
func DonorFields() []string { return profileFields("donorType") }
func NGOFields() []string   { return profileFields("organizationType") }

func keep(form url.Values, fields ...string) url.Values {
	out := url.Values{}
	for _, f := range fields {
		if v := form.Get(f); v != "" {
			out.Set(f, v)
		}
	}
	return out
}

func invalid(verr *validation.Error, values url.Values) Outcome {
	out := failure(verr.Message, values)
	out.FieldErrors = verr.Fields
	return out
}

func orDefault(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}
