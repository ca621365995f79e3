package tracker

import (
	"sort"
	"time"

	"github.com/dquaid/leetfriends/internal/api"
	"github.com/dquaid/leetfriends/internal/core"
)

// StrikeResult is one user's consecutive-miss count. Strikes count the
// calendar days with zero submissions, walking backward from yesterday
// and stopping at the first day with one.
type StrikeResult struct {
	Username    string `json:"username"`
	Avatar      string `json:"avatar"`
	Strikes     int    `json:"strikes"`
	ClearsToday bool   `json:"clearsToday"`

	// ClearingSubmission is the most recent submission made today, set
	// only when ClearsToday.
	ClearingSubmission *api.Submission `json:"clearingSubmission,omitempty"`
}

// ClearedStrikeResult marks a user who solved yesterday after a gap, so
// the solve actually cleared a pending strike.
type ClearedStrikeResult struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// StrikeReport is the full strike view for a user set.
type StrikeReport struct {
	Strikes []StrikeResult        `json:"strikes"`
	Cleared []ClearedStrikeResult `json:"cleared"`
}

// StreakResult is one user's consecutive-day hit streak, surfaced only
// at two days or more.
type StreakResult struct {
	Username        string `json:"username"`
	Avatar          string `json:"avatar"`
	Streak          int    `json:"streak"`
	LastProblemDate string `json:"lastProblemDate"`
}

// daySet maps each local calendar date with at least one submission to
// the most recent submission on that date. Submissions arrive newest
// first, so the first one seen per date wins.
func daySet(subs []api.Submission, loc *time.Location) map[string]*api.Submission {
	days := make(map[string]*api.Submission)
	for i := range subs {
		date := core.LocalDateString(int64(subs[i].Timestamp), loc)
		if _, ok := days[date]; !ok {
			days[date] = &subs[i]
		}
	}
	return days
}

// ComputeStrikes derives the strike report for a user set.
func ComputeStrikes(users []UserActivity, loc *time.Location, maxStrikes int) StrikeReport {
	return ComputeStrikesAt(time.Now(), users, loc, maxStrikes)
}

// ComputeStrikesAt is ComputeStrikes with an explicit clock.
//
// Per user: a submission today clears the day. Strikes then walk
// backward from yesterday, counting days with no submission, stopping
// at the first day with one. Only users with at least one strike
// appear in the list. A user with zero strikes who solved yesterday is
// reported as having cleared a strike when the day before yesterday
// was a miss; only that single day is examined.
func ComputeStrikesAt(now time.Time, users []UserActivity, loc *time.Location, maxStrikes int) StrikeReport {
	today := core.TodayStringAt(now, loc)

	report := StrikeReport{
		Strikes: make([]StrikeResult, 0, len(users)),
		Cleared: make([]ClearedStrikeResult, 0),
	}

	for _, user := range users {
		days := daySet(user.Submissions, loc)

		result := StrikeResult{Username: user.Username, Avatar: user.Avatar}
		if sub, ok := days[today]; ok {
			result.ClearsToday = true
			result.ClearingSubmission = sub
		}

		for daysAgo := 1; daysAgo <= maxStrikes; daysAgo++ {
			if _, ok := days[core.DaysAgoDateAt(now, loc, daysAgo)]; ok {
				break
			}
			result.Strikes++
		}

		if result.Strikes == 0 {
			_, solvedYesterday := days[core.DaysAgoDateAt(now, loc, 1)]
			_, solvedDayBefore := days[core.DaysAgoDateAt(now, loc, 2)]
			if solvedYesterday && !solvedDayBefore {
				report.Cleared = append(report.Cleared, ClearedStrikeResult{
					Username: user.Username,
					Avatar:   user.Avatar,
				})
			}
			continue
		}

		report.Strikes = append(report.Strikes, result)
	}

	// Worst offenders first; ties keep input order.
	sort.SliceStable(report.Strikes, func(i, j int) bool {
		return report.Strikes[i].Strikes > report.Strikes[j].Strikes
	})
	return report
}

// ComputeStreaks derives the hit-streak leaderboard for a user set.
func ComputeStreaks(users []UserActivity, loc *time.Location) []StreakResult {
	return ComputeStreaksAt(time.Now(), users, loc)
}

// ComputeStreaksAt is ComputeStreaks with an explicit clock.
//
// The streak starts today when today already has a submission,
// otherwise yesterday, and extends backward through consecutive hit
// days up to the lookback horizon. Streaks under two days are noise and
// are not reported.
func ComputeStreaksAt(now time.Time, users []UserActivity, loc *time.Location) []StreakResult {
	today := core.TodayStringAt(now, loc)

	results := make([]StreakResult, 0, len(users))
	for _, user := range users {
		days := daySet(user.Submissions, loc)

		start := 1
		if _, ok := days[today]; ok {
			start = 0
		}

		streak := 0
		lastDate := ""
		for daysAgo := start; daysAgo < start+core.MaxStreakDays; daysAgo++ {
			date := core.DaysAgoDateAt(now, loc, daysAgo)
			if _, ok := days[date]; !ok {
				break
			}
			streak++
			if lastDate == "" {
				lastDate = date
			}
		}

		if streak >= core.MinStreak {
			results = append(results, StreakResult{
				Username:        user.Username,
				Avatar:          user.Avatar,
				Streak:          streak,
				LastProblemDate: lastDate,
			})
		}
	}

	// Longest streaks first; ties keep input order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Streak > results[j].Streak
	})
	return results
}
