package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Madmax-op/FoodShare/models"
)

const MsgLeaderboardFailed = "Failed to load leaderboard"

// GetLeaderboard fetches the ranked entries for one period.
func (cl *Client) GetLeaderboard(ctx context.Context, period models.Period) (Result[[]models.LeaderboardEntry], error) {
	var res Result[[]models.LeaderboardEntry]
	ok, msg, err := cl.do(ctx, call{
		method:    http.MethodGet,
		path:      "/leaderboard/" + url.PathEscape(string(period)),
		operation: "leaderboard fetch",
		fallback:  MsgLeaderboardFailed,
	}, &res.Data)
	res.Success, res.Message = ok, msg
	return res, err
}
