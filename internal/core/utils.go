package core

import (
	"fmt"
	"os"
	"time"
)

// Eprint writes msg to stderr when verbose is true.
func Eprint(msg string, verbose bool) {
	if verbose {
		fmt.Fprintln(os.Stderr, msg)
	}
}

// ProgressPrint writes msg to stderr unless quiet is true.
func ProgressPrint(msg string, quiet bool) {
	if !quiet {
		fmt.Fprintln(os.Stderr, msg)
	}
}

// FormatDuration renders a duration the way the countdown displays it:
// "3d 2h", "2h 5m", "4m 10s", "45s". Units below the largest two are
// dropped.
func FormatDuration(d time.Duration) string {
	totalSeconds := int(d / time.Second)
	if totalSeconds < 0 {
		totalSeconds = 0
	}

	minutes := totalSeconds / 60
	seconds := totalSeconds % 60

	if minutes > 60 {
		hours := minutes / 60
		remainingMinutes := minutes % 60
		if hours > 24 {
			days := hours / 24
			remainingHours := hours % 24
			if remainingHours > 0 {
				return fmt.Sprintf("%dd %dh", days, remainingHours)
			}
			return fmt.Sprintf("%dd", days)
		}
		if remainingMinutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, remainingMinutes)
		}
		return fmt.Sprintf("%dh", hours)
	}

	if minutes > 0 {
		if seconds > 0 {
			return fmt.Sprintf("%dm %ds", minutes, seconds)
		}
		return fmt.Sprintf("%dm", minutes)
	}

	return fmt.Sprintf("%ds", seconds)
}
