package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	whitespace   = regexp.MustCompile(`\s`)
)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone accepts an optional leading '+' followed by up to 16 digits,
// the first non-zero. Whitespace anywhere is ignored.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(whitespace.ReplaceAllString(phone, ""))
}

func IsValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ParseCoordinate parses a form value. Empty or unparsable input reports
// ok=false so callers treat it as a missing field.
func ParseCoordinate(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
