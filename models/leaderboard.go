package models

import "fmt"

// Period is the leaderboard aggregation window.
type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodAllTime Period = "all-time"
)

// Periods returns every period in tab order.
func Periods() []Period {
	return []Period{PeriodMonthly, PeriodYearly, PeriodAllTime}
}

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodMonthly, PeriodYearly, PeriodAllTime:
		return p, nil
	}
	return "", fmt.Errorf("unknown leaderboard period %q", s)
}

// Label is the tab caption for a period.
func (p Period) Label() string {
	switch p {
	case PeriodMonthly:
		return "This Month"
	case PeriodYearly:
		return "This Year"
	case PeriodAllTime:
		return "All Time"
	}
	return string(p)
}

// LeaderboardEntry mirrors the backend DTO. Amount and value are preformatted
// strings; location, donations and impact are optional.
type LeaderboardEntry struct {
	Rank           string `json:"rank,omitempty"`
	DonorName      string `json:"donorName"`
	DonorCategory  string `json:"donorCategory"`
	DonationAmount string `json:"donationAmount"`
	DonationValue  string `json:"donationValue"`
	RankIcon       string `json:"rankIcon,omitempty"`
	Location       string `json:"location,omitempty"`
	Donations      string `json:"donations,omitempty"`
	Impact         string `json:"impact,omitempty"`
}
