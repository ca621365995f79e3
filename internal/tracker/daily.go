package tracker

import (
	"sort"
	"time"

	"github.com/dquaid/leetfriends/internal/core"
)

// DailyEntry is one user's solve count for today.
type DailyEntry struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Count    int    `json:"count"`
}

// DailyCounts ranks users by how many problems they solved today. Never
// cached as a derived blob; the underlying submission lists carry their
// own short TTL.
func DailyCounts(users []UserActivity, loc *time.Location) []DailyEntry {
	return DailyCountsAt(time.Now(), users, loc)
}

// DailyCountsAt is DailyCounts with an explicit clock.
func DailyCountsAt(now time.Time, users []UserActivity, loc *time.Location) []DailyEntry {
	today := core.TodayStringAt(now, loc)

	entries := make([]DailyEntry, 0, len(users))
	for _, user := range users {
		count := 0
		for _, sub := range user.Submissions {
			if core.IsOnDate(int64(sub.Timestamp), today, loc) {
				count++
			}
		}
		entries = append(entries, DailyEntry{
			Username: user.Username,
			Avatar:   user.Avatar,
			Count:    count,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}
