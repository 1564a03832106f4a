package models

// Credentials is the login form payload sent to POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is what the remote API returns for login and registration.
// UserID and Token are only set on success.
type AuthResponse struct {
	Message string `json:"message"`
	UserID  *int64 `json:"userId,omitempty"`
	Token   string `json:"token,omitempty"`
	Role    string `json:"role,omitempty"`
}

// CurrentUser is the profile returned by GET /auth/me.
type CurrentUser struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone,omitempty"`
	City      string  `json:"city,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Role      string  `json:"role,omitempty"`
}

func (u *CurrentUser) Location() LatLng {
	return LatLng{Lat: u.Latitude, Lng: u.Longitude}
}
