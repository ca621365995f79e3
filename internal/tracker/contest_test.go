package tracker

import (
	"context"
	"testing"

	"github.com/dquaid/leetfriends/internal/core"
)

func difficultyMap(m map[string]string) DifficultyFunc {
	return func(_ context.Context, slug string) (string, error) {
		return m[slug], nil
	}
}

func TestScoreWeekSumsPoints(t *testing.T) {
	loc := chicago(t)
	now := fixedNow(loc)
	weekStart, weekEnd := core.CurrentWeekBoundsAt(now, loc)

	users := []UserActivity{activity("alice",
		subDaysAgo(now, loc, 0, "easy-one"),
		subDaysAgo(now, loc, 1, "medium-one"),
		subDaysAgo(now, loc, 2, "hard-one"),
	)}
	diffs := difficultyMap(map[string]string{
		"easy-one":   "Easy",
		"medium-one": "Medium",
		"hard-one":   "Hard",
	})

	entries, err := ScoreWeek(context.Background(), users, weekStart, weekEnd, loc, diffs)
	if err != nil {
		t.Fatalf("ScoreWeek failed: %v", err)
	}
	if entries[0].Points != 10 {
		t.Errorf("Points = %d, want 10", entries[0].Points)
	}
	if entries[0].SubmissionCount != 3 {
		t.Errorf("SubmissionCount = %d, want 3", entries[0].SubmissionCount)
	}
}

func TestScoreWeekIgnoresOutOfWeekSubmissions(t *testing.T) {
	loc := chicago(t)
	now := fixedNow(loc) // Wednesday, so 3+ days ago is outside the week
	weekStart, weekEnd := core.CurrentWeekBoundsAt(now, loc)

	users := []UserActivity{activity("alice",
		subDaysAgo(now, loc, 0, "easy-one"),
		subDaysAgo(now, loc, 7, "hard-one"),
	)}
	diffs := difficultyMap(map[string]string{
		"easy-one": "Easy",
		"hard-one": "Hard",
	})

	entries, err := ScoreWeek(context.Background(), users, weekStart, weekEnd, loc, diffs)
	if err != nil {
		t.Fatalf("ScoreWeek failed: %v", err)
	}
	if entries[0].Points != 1 {
		t.Errorf("Points = %d, want 1 (out-of-week Hard must not score)", entries[0].Points)
	}
	if entries[0].SubmissionCount != 1 {
		t.Errorf("SubmissionCount = %d, want 1", entries[0].SubmissionCount)
	}
}

func TestScoreWeekUnknownDifficultyScoresZero(t *testing.T) {
	loc := chicago(t)
	now := fixedNow(loc)
	weekStart, weekEnd := core.CurrentWeekBoundsAt(now, loc)

	users := []UserActivity{activity("alice", subDaysAgo(now, loc, 0, "mystery"))}

	entries, err := ScoreWeek(context.Background(), users, weekStart, weekEnd, loc,
		difficultyMap(map[string]string{}))
	if err != nil {
		t.Fatalf("ScoreWeek failed: %v", err)
	}
	if entries[0].Points != 0 {
		t.Errorf("Points = %d, want 0", entries[0].Points)
	}
	// The submission still appears in the week's list.
	if entries[0].SubmissionCount != 1 {
		t.Errorf("SubmissionCount = %d, want 1", entries[0].SubmissionCount)
	}
}

func TestScoreWeekRanksDescendingStable(t *testing.T) {
	loc := chicago(t)
	now := fixedNow(loc)
	weekStart, weekEnd := core.CurrentWeekBoundsAt(now, loc)

	users := []UserActivity{
		activity("alice", subDaysAgo(now, loc, 0, "easy-one")),
		activity("bob", subDaysAgo(now, loc, 0, "hard-one")),
		activity("carol", subDaysAgo(now, loc, 1, "easy-two")),
	}
	diffs := difficultyMap(map[string]string{
		"easy-one": "Easy",
		"easy-two": "Easy",
		"hard-one": "Hard",
	})

	entries, err := ScoreWeek(context.Background(), users, weekStart, weekEnd, loc, diffs)
	if err != nil {
		t.Fatalf("ScoreWeek failed: %v", err)
	}
	want := []string{"bob", "alice", "carol"}
	for i, username := range want {
		if entries[i].Username != username {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].Username, username)
		}
	}
}

func TestPointsFor(t *testing.T) {
	tests := []struct {
		difficulty string
		want       int
	}{
		{"Easy", 1},
		{"Medium", 3},
		{"Hard", 6},
		{"", 0},
		{"easy", 0},
	}
	for _, tt := range tests {
		if got := PointsFor(tt.difficulty); got != tt.want {
			t.Errorf("PointsFor(%q) = %d, want %d", tt.difficulty, got, tt.want)
		}
	}
}

func TestDailyCounts(t *testing.T) {
	loc := chicago(t)
	now := fixedNow(loc)

	users := []UserActivity{
		activity("alice", subDaysAgo(now, loc, 0, "a"), subDaysAgo(now, loc, 1, "b")),
		activity("bob",
			subDaysAgo(now, loc, 0, "a"),
			subDaysAgo(now, loc, 0, "b"),
			subDaysAgo(now, loc, 0, "c"),
		),
		activity("carol", subDaysAgo(now, loc, 1, "a")),
	}

	entries := DailyCountsAt(now, users, loc)
	want := []struct {
		username string
		count    int
	}{{"bob", 3}, {"alice", 1}, {"carol", 0}}

	for i, w := range want {
		if entries[i].Username != w.username || entries[i].Count != w.count {
			t.Errorf("entries[%d] = %s/%d, want %s/%d",
				i, entries[i].Username, entries[i].Count, w.username, w.count)
		}
	}
}

func TestBuildFeedMergesNewestFirst(t *testing.T) {
	loc := chicago(t)
	now := fixedNow(loc)

	users := []UserActivity{
		activity("alice", subDaysAgo(now, loc, 1, "older")),
		activity("bob", subDaysAgo(now, loc, 0, "newer")),
	}

	feed := BuildFeed(users)
	if len(feed) != 2 {
		t.Fatalf("got %d feed items, want 2", len(feed))
	}
	if feed[0].Username != "bob" || feed[0].TitleSlug != "newer" {
		t.Errorf("feed[0] = %+v, want bob/newer", feed[0])
	}
	if feed[1].Username != "alice" {
		t.Errorf("feed[1] = %+v, want alice/older", feed[1])
	}
}
