package models

// RegistrantKind distinguishes the two self-service registration forms.
type RegistrantKind string

const (
	RegistrantDonor RegistrantKind = "donor"
	RegistrantNGO   RegistrantKind = "ngo"
)

// ParseRegistrantKind maps a tab name to a kind, defaulting to donor.
func ParseRegistrantKind(s string) RegistrantKind {
	if RegistrantKind(s) == RegistrantNGO {
		return RegistrantNGO
	}
	return RegistrantDonor
}

// Profile holds the fields shared by donor and NGO registrations.
type Profile struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Password    string  `json:"password"`
	Description string  `json:"description,omitempty"`
}

// DonorRegistration is sent to POST /auth/register/donor.
type DonorRegistration struct {
	Profile
	DonorType string `json:"donorType"`
}

// NGORegistration is sent to POST /auth/register/ngo.
type NGORegistration struct {
	Profile
	OrganizationType string `json:"organizationType"`
}
