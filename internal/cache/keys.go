package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Cache keys compose a domain name with a canonicalized parameter tuple.
// Multi-user keys sort the username set first, so {alice, bob} and
// {bob, alice} always hit the same entry regardless of friend-list
// ordering. Date-sensitive keys embed the current date (or week start),
// so crossing a day or week boundary is a natural cache miss with no
// explicit invalidation.

// SubmissionsKey is the cache key for a user's recent AC submissions
// with the given fetch limit.
func SubmissionsKey(username string, limit int) string {
	return fmt.Sprintf("submissions_%s_%d", username, limit)
}

// UserStatsKey is the cache key for a user's solve statistics.
func UserStatsKey(username string) string {
	return "user_stats_" + username
}

// ProfileKey is the cache key for a user's profile picture data.
func ProfileKey(username string) string {
	return "profile_pic_" + username
}

// DifficultyKey is the cache key for a problem's difficulty.
func DifficultyKey(titleSlug string) string {
	return "difficulty_" + titleSlug
}

// StrikesKey is the cache key for a derived strike report. The date
// anchor makes the entry roll over at the local day boundary.
func StrikesKey(usernames []string, maxStrikes int, today string) string {
	return fmt.Sprintf("strikes_%s_%d_%s", joinSorted(usernames), maxStrikes, today)
}

// ContestKey is the cache key for a derived contest standing. The week
// start anchors the entry to the current Monday-start week.
func ContestKey(usernames []string, weekStart string) string {
	return fmt.Sprintf("contest_%s_%s", joinSorted(usernames), weekStart)
}

// SubmissionsKeys returns the submissions key for every username.
func SubmissionsKeys(usernames []string, limit int) []string {
	keys := make([]string, len(usernames))
	for i, u := range usernames {
		keys[i] = SubmissionsKey(u, limit)
	}
	return keys
}

// UserStatsKeys returns the stats key for every username.
func UserStatsKeys(usernames []string) []string {
	keys := make([]string, len(usernames))
	for i, u := range usernames {
		keys[i] = UserStatsKey(u)
	}
	return keys
}

// joinSorted joins a copy of the usernames in lexicographic order.
func joinSorted(usernames []string) string {
	sorted := make([]string, len(usernames))
	copy(sorted, usernames)
	sort.Strings(sorted)
	return strings.Join(sorted, "_")
}
