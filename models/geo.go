package models

import "time"

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NearbyNGO is one element of GET /ngo/nearby.
type NearbyNGO struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	OrganizationType    string  `json:"organizationType"`
	Description         string  `json:"description,omitempty"`
	City                string  `json:"city"`
	Phone               string  `json:"phone,omitempty"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	Distance            float64 `json:"distance"` // kilometers
	AcceptsDonations    bool    `json:"acceptsDonations"`
	MaxDonationDistance int     `json:"maxDonationDistance"`
	MaxDonationQuantity int     `json:"maxDonationQuantity"`
}

// DonorLocation is the subset of a donor profile plotted on the map.
type DonorLocation struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	DonorType string  `json:"donorType"`
	Phone     string  `json:"phone,omitempty"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Donation is a plotted food donation.
type Donation struct {
	ID         int64     `json:"id"`
	FoodType   string    `json:"foodType"`
	Quantity   float64   `json:"quantity"` // kg
	ExpiryTime time.Time `json:"expiryTime"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
}
