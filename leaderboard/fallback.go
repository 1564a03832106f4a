package leaderboard

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/Madmax-op/FoodShare/models"
)

//go:embed fallback.json
var fallbackJSON []byte

var fallbackData = mustDecodeFallback(fallbackJSON)

func mustDecodeFallback(raw []byte) map[models.Period][]models.LeaderboardEntry {
	var data map[models.Period][]models.LeaderboardEntry
	if err := json.Unmarshal(raw, &data); err != nil {
		panic(fmt.Sprintf("leaderboard: invalid embedded fallback data: %v", err))
	}
	for _, p := range models.Periods() {
		if len(data[p]) == 0 {
			panic(fmt.Sprintf("leaderboard: embedded fallback data has no %s entries", p))
		}
	}
	return data
}

// Fallback returns a copy of the embedded sample rankings for p.
func Fallback(p models.Period) []models.LeaderboardEntry {
	src := fallbackData[p]
	out := make([]models.LeaderboardEntry, len(src))
	copy(out, src)
	return out
}
