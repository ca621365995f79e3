package tracker

import (
	"sort"

	"github.com/dquaid/leetfriends/internal/api"
)

// LeaderboardEntry is one user's all-time solve count for a difficulty
// tab.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// BuildLeaderboard ranks users by solve count for the given difficulty
// row ("All", "Easy", "Medium" or "Hard"). Input order is preserved on
// ties. The usernames and stats slices are parallel.
func BuildLeaderboard(usernames []string, stats []*api.SolveStats, difficulty string) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(usernames))
	for i, username := range usernames {
		count := 0
		if i < len(stats) && stats[i] != nil {
			count = stats[i].CountFor(difficulty)
		}
		entries = append(entries, LeaderboardEntry{Username: username, Count: count})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}
