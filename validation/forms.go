package validation

import (
	"strings"

	"github.com/Madmax-op/FoodShare/models"
)

const (
	MsgRequiredFields = "Please fill in all required fields"
	MsgInvalidEmail   = "Please enter a valid email address"
	MsgInvalidPhone   = "Please enter a valid phone number"
	MsgInvalidCoords  = "Please enter valid coordinates"

	MsgFieldRequired = "This field is required"
)

// Error is a client-side validation failure. Message is the single banner
// message; Fields holds inline messages keyed by form field name.
type Error struct {
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(msg string) *Error {
	return &Error{Message: msg, Fields: map[string]string{}}
}

// Coordinates records whether the raw latitude and longitude form values
// parsed. An unparsed coordinate counts as a missing required field.
type Coordinates struct {
	LatitudeSet  bool
	LongitudeSet bool
}

func ValidateLogin(c models.Credentials) *Error {
	e := newError(MsgRequiredFields)
	requireField(e, "email", c.Email)
	requireField(e, "password", c.Password)
	if len(e.Fields) > 0 {
		return e
	}
	if !IsValidEmail(c.Email) {
		e.Message = MsgInvalidEmail
		e.Fields["email"] = MsgInvalidEmail
		return e
	}
	return nil
}

func ValidateDonor(d models.DonorRegistration, coords Coordinates) *Error {
	e := newError(MsgRequiredFields)
	requireField(e, "donorType", d.DonorType)
	return validateProfile(e, d.Profile, coords)
}

func ValidateNGO(n models.NGORegistration, coords Coordinates) *Error {
	e := newError(MsgRequiredFields)
	requireField(e, "organizationType", n.OrganizationType)
	return validateProfile(e, n.Profile, coords)
}

func validateProfile(e *Error, p models.Profile, coords Coordinates) *Error {
	requireField(e, "name", p.Name)
	requireField(e, "email", p.Email)
	requireField(e, "phone", p.Phone)
	requireField(e, "city", p.City)
	requireField(e, "password", p.Password)
	if !coords.LatitudeSet {
		e.Fields["latitude"] = MsgFieldRequired
	}
	if !coords.LongitudeSet {
		e.Fields["longitude"] = MsgFieldRequired
	}
	if len(e.Fields) > 0 {
		return e
	}

	switch {
	case !IsValidEmail(p.Email):
		e.Message = MsgInvalidEmail
		e.Fields["email"] = MsgInvalidEmail
	case !IsValidPhone(p.Phone):
		e.Message = MsgInvalidPhone
		e.Fields["phone"] = MsgInvalidPhone
	case !IsValidCoordinates(p.Latitude, p.Longitude):
		e.Message = MsgInvalidCoords
		e.Fields["latitude"] = MsgInvalidCoords
		e.Fields["longitude"] = MsgInvalidCoords
	default:
		return nil
	}
	return e
}

func requireField(e *Error, field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Fields[field] = MsgFieldRequired
	}
}
