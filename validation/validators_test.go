package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Madmax-op/FoodShare/models"
)

func TestIsValidEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.com":             true,
		"donor.one@food.org":  true,
		"a@b":                 false,
		"a b@c.com":           false,
		"@b.com":              false,
		"a@@b.com":            false,
		"":                    false,
		"hostel5@du.ac.in":    true,
		"no-at-sign.example.": false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsValidEmail(in), "email %q", in)
	}
}

func TestIsValidPhone(t *testing.T) {
	cases := map[string]bool{
		"+919876543210":      true,
		"98765 43210":        true,
		"1":                  true,
		"0123456":            false,
		"+":                  false,
		"12345678901234567":  false,
		"1234567890123456":   true,
		"98-76":              false,
		"":                   false,
		" +1 555 010 9999  ": true,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsValidPhone(in), "phone %q", in)
	}
}

func TestIsValidCoordinates(t *testing.T) {
	assert.True(t, IsValidCoordinates(90, 180))
	assert.True(t, IsValidCoordinates(-90, -180))
	assert.True(t, IsValidCoordinates(0, 0))
	assert.False(t, IsValidCoordinates(91, 0))
	assert.False(t, IsValidCoordinates(-90.0001, 0))
	assert.False(t, IsValidCoordinates(0, 180.5))
	assert.False(t, IsValidCoordinates(math.NaN(), 0))
}

func TestParseCoordinate(t *testing.T) {
	v, ok := ParseCoordinate(" 28.6139 ")
	require.True(t, ok)
	assert.InDelta(t, 28.6139, v, 1e-9)

	_, ok = ParseCoordinate("")
	assert.False(t, ok)
	_, ok = ParseCoordinate("north")
	assert.False(t, ok)
	_, ok = ParseCoordinate("NaN")
	assert.False(t, ok)

	v, ok = ParseCoordinate("0")
	require.True(t, ok)
	assert.Zero(t, v)
}

func TestValidateLogin(t *testing.T) {
	err := ValidateLogin(models.Credentials{Email: "", Password: "x"})
	require.NotNil(t, err)
	assert.Equal(t, MsgRequiredFields, err.Message)
	assert.Equal(t, MsgFieldRequired, err.Fields["email"])

	err = ValidateLogin(models.Credentials{Email: "a@b", Password: "x"})
	require.NotNil(t, err)
	assert.Equal(t, MsgInvalidEmail, err.Message)

	assert.Nil(t, ValidateLogin(models.Credentials{Email: "a@b.com", Password: "x"}))
}

func validDonor() models.DonorRegistration {
	return models.DonorRegistration{
		Profile: models.Profile{
			Name:      "Spice Garden Restaurant",
			Email:     "kitchen@spicegarden.in",
			Phone:     "+91 98765 43210",
			City:      "Mumbai",
			Latitude:  19.076,
			Longitude: 72.8777,
			Password:  "secret1",
		},
		DonorType: "RESTAURANT",
	}
}

var bothCoords = Coordinates{LatitudeSet: true, LongitudeSet: true}

func TestValidateDonor(t *testing.T) {
	assert.Nil(t, ValidateDonor(validDonor(), bothCoords))

	d := validDonor()
	d.DonorType = ""
	err := ValidateDonor(d, bothCoords)
	require.NotNil(t, err)
	assert.Equal(t, MsgRequiredFields, err.Message)
	assert.Contains(t, err.Fields, "donorType")

	err = ValidateDonor(validDonor(), Coordinates{LatitudeSet: true})
	require.NotNil(t, err)
	assert.Equal(t, MsgRequiredFields, err.Message)
	assert.Contains(t, err.Fields, "longitude")

	d = validDonor()
	d.Phone = "0000"
	err = ValidateDonor(d, bothCoords)
	require.NotNil(t, err)
	assert.Equal(t, MsgInvalidPhone, err.Message)

	d = validDonor()
	d.Latitude = 91
	err = ValidateDonor(d, bothCoords)
	require.NotNil(t, err)
	assert.Equal(t, MsgInvalidCoords, err.Message)

	d = validDonor()
	d.Latitude = 90
	assert.Nil(t, ValidateDonor(d, bothCoords))
}

func TestValidateNGOChecksEmailBeforePhone(t *testing.T) {
	n := models.NGORegistration{
		Profile:          validDonor().Profile,
		OrganizationType: "FOOD_BANK",
	}
	n.Email = "bad"
	n.Phone = "bad"
	err := ValidateNGO(n, bothCoords)
	require.NotNil(t, err)
	assert.Equal(t, MsgInvalidEmail, err.Message)
	assert.NotContains(t, err.Fields, "phone")
}
