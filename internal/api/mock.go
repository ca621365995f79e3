package api

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// InMemoryTransport is a lightweight simulation of the LeetCode GraphQL
// API, sufficient for unit testing the cache and tracker layers. Seed it
// with submissions, stats, avatars and difficulties, then point an API
// at it.
type InMemoryTransport struct {
	mu           sync.Mutex
	submissions  map[string][]Submission
	stats        map[string]SolveStats
	avatars      map[string]string
	difficulties map[string]string

	// RequestLog records every query for assertions in unit tests.
	RequestLog []RequestLogEntry

	// Err, when set, fails every request (for failure-path tests).
	Err error
}

// RequestLogEntry records a request made to the transport.
type RequestLogEntry struct {
	Query     string
	Variables map[string]any
}

// NewInMemoryTransport creates an empty in-memory transport.
func NewInMemoryTransport() *InMemoryTransport {
	return &InMemoryTransport{
		submissions:  make(map[string][]Submission),
		stats:        make(map[string]SolveStats),
		avatars:      make(map[string]string),
		difficulties: make(map[string]string),
		RequestLog:   make([]RequestLogEntry, 0),
	}
}

// SeedSubmissions registers a user's recent submissions, newest first.
func (t *InMemoryTransport) SeedSubmissions(username string, subs ...Submission) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.submissions[username] = append(t.submissions[username], subs...)
	// Keep newest first, as the real API returns them.
	sort.SliceStable(t.submissions[username], func(i, j int) bool {
		return t.submissions[username][i].Timestamp > t.submissions[username][j].Timestamp
	})
	if _, ok := t.avatars[username]; !ok {
		t.avatars[username] = "https://assets.leetcode.com/avatars/" + username + ".png"
	}
}

// SeedStats registers a user's solve statistics.
func (t *InMemoryTransport) SeedStats(username string, stats SolveStats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats[username] = stats
	if _, ok := t.avatars[username]; !ok {
		t.avatars[username] = "https://assets.leetcode.com/avatars/" + username + ".png"
	}
}

// SeedUser registers a username with an avatar and no activity.
func (t *InMemoryTransport) SeedUser(username, avatar string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.avatars[username] = avatar
}

// SeedDifficulty registers a problem difficulty by slug.
func (t *InMemoryTransport) SeedDifficulty(titleSlug, difficulty string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.difficulties[titleSlug] = difficulty
}

// RequestsMade returns the number of queries made to this transport.
func (t *InMemoryTransport) RequestsMade() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.RequestLog)
}

// Reset clears seeded data and the request log.
func (t *InMemoryTransport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.submissions = make(map[string][]Submission)
	t.stats = make(map[string]SolveStats)
	t.avatars = make(map[string]string)
	t.difficulties = make(map[string]string)
	t.RequestLog = make([]RequestLogEntry, 0)
}

// Query simulates the GraphQL endpoint for the four known documents.
func (t *InMemoryTransport) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	t.mu.Lock()
	t.RequestLog = append(t.RequestLog, RequestLogEntry{Query: query, Variables: variables})
	err := t.Err
	t.mu.Unlock()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch query {
	case queryRecentSubmissions:
		username, _ := variables["username"].(string)
		limit, _ := variables["limit"].(int)
		subs := t.submissions[username]
		if limit > 0 && limit < len(subs) {
			subs = subs[:limit]
		}
		// Strip usernames: the real feed omits them.
		stripped := make([]Submission, len(subs))
		for i, s := range subs {
			s.Username = ""
			stripped[i] = s
		}
		return roundTrip(map[string]any{"recentAcSubmissionList": stripped}, out)

	case queryUserStats:
		username, _ := variables["username"].(string)
		stats, ok := t.stats[username]
		if !ok {
			return roundTrip(map[string]any{"matchedUser": nil}, out)
		}
		stats.Username = ""
		return roundTrip(map[string]any{
			"matchedUser": map[string]any{"submitStats": stats},
		}, out)

	case queryProfile:
		username, _ := variables["username"].(string)
		avatar, ok := t.avatars[username]
		if !ok {
			return roundTrip(map[string]any{"matchedUser": nil}, out)
		}
		return roundTrip(map[string]any{
			"matchedUser": map[string]any{
				"profile": map[string]any{"userAvatar": avatar},
			},
		}, out)

	case queryDifficulty:
		slug, _ := variables["titleSlug"].(string)
		difficulty, ok := t.difficulties[slug]
		if !ok {
			return roundTrip(map[string]any{"question": nil}, out)
		}
		return roundTrip(map[string]any{
			"question": map[string]any{"difficulty": difficulty},
		}, out)
	}

	return roundTrip(map[string]any{}, out)
}

// roundTrip marshals the simulated data object and decodes it into out,
// exercising the same JSON path as the real transport.
func roundTrip(data map[string]any, out any) error {
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
