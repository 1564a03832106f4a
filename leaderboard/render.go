package leaderboard

import (
	"strconv"

	"github.com/Madmax-op/FoodShare/models"
)

var medals = [...]string{"🥇", "🥈", "🥉"}

// Item is the view model for one leaderboard card.
type Item struct {
	RankClass      string
	RankIcon       string
	DonorName      string
	DonorCategory  string
	Location       string
	Donations      string
	Impact         string
	DonationAmount string
	DonationValue  string
}

func (i Item) HasStats() bool {
	return i.Location != "" || i.Donations != "" || i.Impact != ""
}

// Grid is one rendered period.
type Grid struct {
	Period   models.Period
	Items    []Item
	Fallback bool
	Hidden   bool
}

type entryKey struct {
	name     string
	category string
}

// Render turns ranked entries into items, in input order. An entry whose
// (name, category) pair was already rendered is skipped. Rank glyphs follow
// the entry's position in the input, so a skipped duplicate leaves a gap.
func Render(entries []models.LeaderboardEntry) []Item {
	seen := make(map[entryKey]struct{}, len(entries))
	items := make([]Item, 0, len(entries))

	for i, e := range entries {
		key := entryKey{name: e.DonorName, category: e.DonorCategory}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		items = append(items, Item{
			RankClass:      rankClass(i),
			RankIcon:       rankIcon(e, i),
			DonorName:      e.DonorName,
			DonorCategory:  e.DonorCategory,
			Location:       e.Location,
			Donations:      e.Donations,
			Impact:         e.Impact,
			DonationAmount: e.DonationAmount,
			DonationValue:  e.DonationValue,
		})
	}
	return items
}

func rankClass(index int) string {
	if index < len(medals) {
		return "rank-" + strconv.Itoa(index+1)
	}
	return ""
}

func rankIcon(e models.LeaderboardEntry, index int) string {
	if e.RankIcon != "" {
		return e.RankIcon
	}
	if index < len(medals) {
		return medals[index]
	}
	return strconv.Itoa(index + 1)
}
