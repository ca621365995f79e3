package tracker

import (
	"context"
	"sort"
	"time"

	"github.com/dquaid/leetfriends/internal/api"
	"github.com/dquaid/leetfriends/internal/core"
)

// ContestSubmission is a submission annotated with the difficulty and
// the points it scored.
type ContestSubmission struct {
	api.Submission
	Difficulty string `json:"difficulty"`
	Points     int    `json:"points"`
}

// ContestEntry is one user's weekly contest standing.
type ContestEntry struct {
	Username        string              `json:"username"`
	Avatar          string              `json:"avatar"`
	Points          int                 `json:"points"`
	Submissions     []ContestSubmission `json:"submissions"`
	SubmissionCount int                 `json:"submissionCount"`
}

// PointsFor returns the contest points for a difficulty. Unrecognized
// difficulties score nothing.
func PointsFor(difficulty string) int {
	switch difficulty {
	case "Easy":
		return core.PointsEasy
	case "Medium":
		return core.PointsMedium
	case "Hard":
		return core.PointsHard
	}
	return 0
}

// DifficultyFunc resolves a problem slug to its difficulty.
type DifficultyFunc func(ctx context.Context, titleSlug string) (string, error)

// ScoreWeek filters each user's submissions to the [weekStart, weekEnd]
// local-date window, resolves difficulties, sums points and ranks users
// descending. Ties keep input order. YYYY-MM-DD strings compare
// lexicographically, so the window check is plain string comparison.
func ScoreWeek(ctx context.Context, users []UserActivity, weekStart, weekEnd string, loc *time.Location, difficulty DifficultyFunc) ([]ContestEntry, error) {
	entries := make([]ContestEntry, 0, len(users))

	for _, user := range users {
		entry := ContestEntry{
			Username:    user.Username,
			Avatar:      user.Avatar,
			Submissions: make([]ContestSubmission, 0),
		}

		for _, sub := range user.Submissions {
			date := core.LocalDateString(int64(sub.Timestamp), loc)
			if date < weekStart || date > weekEnd {
				continue
			}

			diff, err := difficulty(ctx, sub.TitleSlug)
			if err != nil {
				return nil, err
			}

			points := PointsFor(diff)
			entry.Points += points
			entry.Submissions = append(entry.Submissions, ContestSubmission{
				Submission: sub,
				Difficulty: diff,
				Points:     points,
			})
		}

		entry.SubmissionCount = len(entry.Submissions)
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	return entries, nil
}
