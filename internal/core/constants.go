// Package core provides shared constants and calendar utilities for leetfriends.
package core

import (
	"os"
	"path/filepath"
	"time"
)

// API configuration
const (
	GraphQLEndpoint = "https://leetcode.com/graphql"
	DefaultTZ       = "America/Chicago"
	// AutoTZ selects the runtime's local timezone at resolution time.
	AutoTZ = "auto"
)

// Date formats
const (
	DateFmt = "2006-01-02"
)

// TTLs per cached dataset. Strikes are additionally capped so the entry
// never outlives the local midnight (see EffectiveStrikesTTL).
const (
	TTLProfilePic       = 24 * time.Hour
	TTLUserStats        = time.Hour
	TTLSubmissions      = 10 * time.Minute
	TTLDailyLeaderboard = 5 * time.Minute
	TTLContest          = 30 * time.Minute
	TTLStrikes          = 30 * time.Minute
	TTLDifficulty       = 24 * time.Hour

	// StrikesTTLFloor keeps the midnight cap from producing a near-zero
	// TTL right before the day rolls over.
	StrikesTTLFloor = 5 * time.Minute
)

// Submission lookback windows per view.
const (
	ActivityLimit   = 5
	DailyLookback   = 20
	StrikeLookback  = 30
	ContestLookback = 50
	MaxStreakDays   = 30
)

// Contest points per difficulty. Unrecognized difficulties score 0.
const (
	PointsEasy   = 1
	PointsMedium = 3
	PointsHard   = 6
)

// Strike configuration bounds
const (
	MinMaxStrikes     = 1
	MaxMaxStrikes     = 30
	DefaultMaxStrikes = 3
)

// MinStreak is the smallest hit streak worth surfacing.
const MinStreak = 2

// DataRoot returns the directory holding the store and config files.
func DataRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".leetfriends")
}

// Version is the current CLI version.
const Version = "0.3.0"
