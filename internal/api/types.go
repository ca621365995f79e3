// Package api provides the GraphQL client and types for the LeetCode API.
package api

import (
	"bytes"
	"context"
	"strconv"
)

// EpochSeconds is a Unix timestamp in seconds. The GraphQL API encodes
// submission timestamps inconsistently as either a JSON number or a
// quoted string; this type accepts both. Note the unit: seconds, not
// milliseconds.
type EpochSeconds int64

// UnmarshalJSON accepts both `1721003400` and `"1721003400"`.
func (e *EpochSeconds) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*e = EpochSeconds(v)
	return nil
}

// MarshalJSON always emits a plain number.
func (e EpochSeconds) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(e), 10)), nil
}

// Submission is one accepted submission from the recent-AC feed.
// Username is stamped client-side; the API response omits it.
type Submission struct {
	Title         string       `json:"title"`
	TitleSlug     string       `json:"titleSlug"`
	Timestamp     EpochSeconds `json:"timestamp"`
	StatusDisplay string       `json:"statusDisplay"`
	Lang          string       `json:"lang"`
	Username      string       `json:"username,omitempty"`
}

// DifficultyCount is one row of a user's per-difficulty solve stats.
// The "All" row aggregates the other three.
type DifficultyCount struct {
	Difficulty  string `json:"difficulty"`
	Count       int    `json:"count"`
	Submissions int    `json:"submissions"`
}

// SolveStats is a user's accepted-submission statistics.
type SolveStats struct {
	Username        string            `json:"username,omitempty"`
	ACSubmissionNum []DifficultyCount `json:"acSubmissionNum"`
}

// CountFor returns the solve count for a difficulty row ("All", "Easy",
// "Medium", "Hard"), or 0 if the row is missing.
func (s *SolveStats) CountFor(difficulty string) int {
	for _, row := range s.ACSubmissionNum {
		if row.Difficulty == difficulty {
			return row.Count
		}
	}
	return 0
}

// Profile is a user's public profile subset.
type Profile struct {
	UserAvatar string `json:"userAvatar"`
}

// Transport executes a GraphQL query and decodes the response's data
// object into out.
type Transport interface {
	Query(ctx context.Context, query string, variables map[string]any, out any) error
}
