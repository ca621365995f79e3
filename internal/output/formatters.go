// Package output renders tracker views for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/dquaid/leetfriends/internal/cache"
	"github.com/dquaid/leetfriends/internal/core"
	"github.com/dquaid/leetfriends/internal/tracker"
)

var (
	easyColor   = color.New(color.FgGreen)
	mediumColor = color.New(color.FgYellow)
	hardColor   = color.New(color.FgRed)
	userColor   = color.New(color.FgCyan, color.Bold)
	dimColor    = color.New(color.Faint)
)

// PrintJSON prints a single item as formatted JSON.
func PrintJSON(item interface{}) {
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// colorDifficulty renders a difficulty label in its conventional color.
func colorDifficulty(difficulty string) string {
	switch difficulty {
	case "Easy":
		return easyColor.Sprint(difficulty)
	case "Medium":
		return mediumColor.Sprint(difficulty)
	case "Hard":
		return hardColor.Sprint(difficulty)
	}
	return difficulty
}

// relativeTime renders an epoch-seconds timestamp as "2h 5m ago".
func relativeTime(timestampSec int64) string {
	elapsed := time.Since(time.Unix(timestampSec, 0))
	if elapsed < 0 {
		elapsed = 0
	}
	return core.FormatDuration(elapsed) + " ago"
}

// PrintActivity prints the merged recent-submission feed, newest first.
func PrintActivity(feed []tracker.FeedItem) {
	if len(feed) == 0 {
		fmt.Println("No recent activity.")
		return
	}
	for _, item := range feed {
		difficulty := ""
		if item.Difficulty != "" {
			difficulty = " (" + colorDifficulty(item.Difficulty) + ")"
		}
		fmt.Printf("%s  %s%s  %s\n",
			userColor.Sprintf("%-16s", item.Username),
			item.Title,
			difficulty,
			dimColor.Sprint(relativeTime(item.Timestamp)))
	}
}

// PrintLeaderboard prints per-user solve totals for one difficulty tab
// ("All", "Easy", "Medium" or "Hard").
func PrintLeaderboard(entries []tracker.LeaderboardEntry, difficulty string) {
	fmt.Printf("Solved (%s)\n", colorDifficulty(difficulty))
	if len(entries) == 0 {
		fmt.Println("No users tracked.")
		return
	}
	for i, e := range entries {
		fmt.Printf("%2d. %s  %d\n", i+1, userColor.Sprintf("%-16s", e.Username), e.Count)
	}
}

// PrintDaily prints today's solve counts.
func PrintDaily(entries []tracker.DailyEntry) {
	fmt.Println("Solved today")
	if len(entries) == 0 {
		fmt.Println("No users tracked.")
		return
	}
	for i, e := range entries {
		fmt.Printf("%2d. %s  %d\n", i+1, userColor.Sprintf("%-16s", e.Username), e.Count)
	}
}

// PrintStrikes prints the strike report: worst offenders first, then
// anyone who just cleared a pending strike. Users without strikes are
// not listed.
func PrintStrikes(report *tracker.StrikeReport) {
	if len(report.Strikes) == 0 && len(report.Cleared) == 0 {
		fmt.Println("No strikes. Everyone is on track.")
		return
	}
	for _, s := range report.Strikes {
		marks := strings.Repeat("❌", s.Strikes)
		status := ""
		if s.ClearsToday {
			status = easyColor.Sprint(" solved today ✅")
		}
		fmt.Printf("%s  %d strike(s) %s%s\n",
			userColor.Sprintf("%-16s", s.Username), s.Strikes, marks, status)
	}
	for _, c := range report.Cleared {
		fmt.Printf("%s  cleared a strike by solving yesterday ✅\n",
			userColor.Sprintf("%-16s", c.Username))
	}
}

// StrikeShareText builds the plain-text strike summary for sharing:
// cleared users first, then strike groups in ascending order.
func StrikeShareText(report *tracker.StrikeReport) string {
	var b strings.Builder

	for _, c := range report.Cleared {
		fmt.Fprintf(&b, "%s cleared their strikes ✅\n", c.Username)
	}

	maxStrikes := 0
	for _, s := range report.Strikes {
		if s.Strikes > maxStrikes {
			maxStrikes = s.Strikes
		}
	}
	for n := 1; n <= maxStrikes; n++ {
		var names []string
		for _, s := range report.Strikes {
			if s.Strikes == n {
				names = append(names, s.Username)
			}
		}
		if len(names) > 0 {
			fmt.Fprintf(&b, "Strike %d %s %s\n", n, strings.Repeat("❌", n),
				strings.Join(names, ", "))
		}
	}
	return b.String()
}

// PrintStreaks prints active hit streaks, longest first.
func PrintStreaks(results []tracker.StreakResult) {
	if len(results) == 0 {
		fmt.Println("No active streaks.")
		return
	}
	for _, r := range results {
		fmt.Printf("%s  🔥 %d day(s)  %s\n",
			userColor.Sprintf("%-16s", r.Username), r.Streak,
			dimColor.Sprintf("last: %s", r.LastProblemDate))
	}
}

// PrintContest prints the weekly contest standings.
func PrintContest(entries []tracker.ContestEntry, weekStart, weekEnd string) {
	fmt.Printf("Contest week %s to %s\n", weekStart, weekEnd)
	if len(entries) == 0 {
		fmt.Println("No users tracked.")
		return
	}
	for i, e := range entries {
		fmt.Printf("%2d. %s  %d point(s), %d solved\n",
			i+1, userColor.Sprintf("%-16s", e.Username), e.Points, e.SubmissionCount)
		for _, sub := range e.Submissions {
			fmt.Printf("      %s (%s, %d)\n", sub.Title, colorDifficulty(sub.Difficulty), sub.Points)
		}
	}
}

// CountdownLine renders one countdown observation as a status line.
func CountdownLine(tick cache.Tick) string {
	switch tick.State {
	case cache.StateCounting:
		return "Updates in " + core.FormatDuration(tick.Remaining)
	case cache.StateUpdating:
		return "Updating…"
	}
	return "No active cache"
}
