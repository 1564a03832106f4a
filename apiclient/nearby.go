package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Madmax-op/FoodShare/models"
)

const (
	MsgNearbyNGOsFailed   = "Failed to find nearby NGOs"
	MsgNearbyDonorsFailed = "Failed to find nearby donors"
	MsgDonationsFailed    = "Failed to load donations"
)

const donationPageSize = 50

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// GetNearbyNGOs lists NGOs within radiusKm of pos. The endpoint is restricted
// to donors, so a token is required.
func (cl *Client) GetNearbyNGOs(ctx context.Context, token string, pos models.LatLng, radiusKm float64) (Result[[]models.NearbyNGO], error) {
	q := url.Values{}
	q.Set("latitude", formatFloat(pos.Lat))
	q.Set("longitude", formatFloat(pos.Lng))
	q.Set("radiusKm", formatFloat(radiusKm))

	var res Result[[]models.NearbyNGO]
	ok, msg, err := cl.do(ctx, call{
		method:    http.MethodGet,
		path:      "/ngo/nearby?" + q.Encode(),
		token:     token,
		operation: "nearby NGO lookup",
		fallback:  MsgNearbyNGOsFailed,
	}, &res.Data)
	res.Success, res.Message = ok, msg
	return res, err
}

// GetNearbyDonors lists donors around an NGO at pos. The backend takes the
// radius in meters.
func (cl *Client) GetNearbyDonors(ctx context.Context, token string, pos models.LatLng, radiusKm float64) (Result[[]models.DonorLocation], error) {
	q := url.Values{}
	q.Set("ngoLat", formatFloat(pos.Lat))
	q.Set("ngoLng", formatFloat(pos.Lng))
	q.Set("radius", strconv.Itoa(int(radiusKm*1000)))

	var res Result[[]models.DonorLocation]
	ok, msg, err := cl.do(ctx, call{
		method:    http.MethodGet,
		path:      "/maps/ngo/nearby-donors?" + q.Encode(),
		token:     token,
		operation: "nearby donor lookup",
		fallback:  MsgNearbyDonorsFailed,
	}, &res.Data)
	res.Success, res.Message = ok, msg
	return res, err
}

// GetDonations returns the first page of the signed-in donor's donation history.
func (cl *Client) GetDonations(ctx context.Context, token string) (Result[[]models.Donation], error) {
	q := url.Values{}
	q.Set("page", "0")
	q.Set("size", strconv.Itoa(donationPageSize))

	var res Result[[]models.Donation]
	ok, msg, err := cl.do(ctx, call{
		method:    http.MethodGet,
		path:      "/donor/donations?" + q.Encode(),
		token:     token,
		operation: "donation history",
		fallback:  MsgDonationsFailed,
	}, &res.Data)
	res.Success, res.Message = ok, msg
	return res, err
}
