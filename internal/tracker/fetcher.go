// Package tracker derives the user-facing views (activity, strikes,
// streaks, daily and weekly leaderboards) from cached LeetCode data.
package tracker

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dquaid/leetfriends/internal/api"
	"github.com/dquaid/leetfriends/internal/cache"
	"github.com/dquaid/leetfriends/internal/core"
)

// Fetcher is the cache-through data layer: every read consults the TTL
// cache first and only then the API, populating the cache on the way
// out. A failed fetch never populates anything; the next read is simply
// a miss again. With forceCache set, misses return empty results
// instead of touching the network.
type Fetcher struct {
	api        *api.API
	cache      *cache.Cache
	verbose    bool
	forceCache bool
}

// NewFetcher creates a fetcher over the given API and cache.
func NewFetcher(a *api.API, c *cache.Cache, verbose, forceCache bool) *Fetcher {
	return &Fetcher{api: a, cache: c, verbose: verbose, forceCache: forceCache}
}

// log writes a debug message if verbose mode is enabled.
func (f *Fetcher) log(msg string) {
	core.Eprint(fmt.Sprintf("[Fetch] %s", msg), f.verbose)
}

// populate writes a fetched value into the cache. A failed write only
// costs a refetch next time, so it is logged, never propagated.
func (f *Fetcher) populate(key string, value any, ttl time.Duration) {
	if err := f.cache.Set(key, value, ttl); err != nil {
		f.log(fmt.Sprintf("cache write failed for %q: %v", key, err))
	}
}

// RecentSubmissions returns a user's recent accepted submissions,
// cached for core.TTLSubmissions.
func (f *Fetcher) RecentSubmissions(ctx context.Context, username string, limit int) ([]api.Submission, error) {
	return f.recentSubmissions(ctx, username, limit, core.TTLSubmissions)
}

func (f *Fetcher) recentSubmissions(ctx context.Context, username string, limit int, ttl time.Duration) ([]api.Submission, error) {
	key := cache.SubmissionsKey(username, limit)

	var subs []api.Submission
	if ok, err := f.cache.Get(key, &subs); err == nil && ok {
		f.log(fmt.Sprintf("cache hit: submissions %s (limit %d)", username, limit))
		return subs, nil
	}
	if f.forceCache {
		return nil, nil
	}

	f.log(fmt.Sprintf("cache miss: submissions %s (limit %d)", username, limit))
	subs, err := f.api.RecentSubmissions(ctx, username, limit)
	if err != nil {
		return nil, err
	}
	f.populate(key, subs, ttl)
	return subs, nil
}

// UserStats returns a user's solve statistics, cached for
// core.TTLUserStats.
func (f *Fetcher) UserStats(ctx context.Context, username string) (*api.SolveStats, error) {
	key := cache.UserStatsKey(username)

	var stats api.SolveStats
	if ok, err := f.cache.Get(key, &stats); err == nil && ok {
		f.log(fmt.Sprintf("cache hit: stats %s", username))
		return &stats, nil
	}
	if f.forceCache {
		return nil, fmt.Errorf("no cached stats for %s", username)
	}

	f.log(fmt.Sprintf("cache miss: stats %s", username))
	fetched, err := f.api.UserStats(ctx, username)
	if err != nil {
		return nil, err
	}
	f.populate(key, fetched, core.TTLUserStats)
	return fetched, nil
}

// Avatar returns a user's profile picture URL, cached for
// core.TTLProfilePic. Unknown users yield an empty URL without error so
// a missing avatar never blocks a view.
func (f *Fetcher) Avatar(ctx context.Context, username string) (string, error) {
	key := cache.ProfileKey(username)

	var profile api.Profile
	if ok, err := f.cache.Get(key, &profile); err == nil && ok {
		return profile.UserAvatar, nil
	}
	if f.forceCache {
		return "", nil
	}

	fetched, err := f.api.Profile(ctx, username)
	if err != nil {
		return "", err
	}
	if fetched == nil {
		return "", nil
	}
	f.populate(key, fetched, core.TTLProfilePic)
	return fetched.UserAvatar, nil
}

// ValidateUser reports whether the username exists upstream. Used
// before adding friends; bypasses the cache so stale entries cannot
// vouch for a renamed account.
func (f *Fetcher) ValidateUser(ctx context.Context, username string) (bool, error) {
	profile, err := f.api.Profile(ctx, username)
	if err != nil {
		return false, err
	}
	if profile != nil {
		f.populate(cache.ProfileKey(username), profile, core.TTLProfilePic)
	}
	return profile != nil, nil
}

// Difficulty returns a problem's difficulty by slug, cached for
// core.TTLDifficulty (difficulties never change).
func (f *Fetcher) Difficulty(ctx context.Context, titleSlug string) (string, error) {
	key := cache.DifficultyKey(titleSlug)

	var difficulty string
	if ok, err := f.cache.Get(key, &difficulty); err == nil && ok {
		return difficulty, nil
	}
	if f.forceCache {
		return "", nil
	}

	difficulty, err := f.api.Difficulty(ctx, titleSlug)
	if err != nil {
		return "", err
	}
	f.populate(key, difficulty, core.TTLDifficulty)
	return difficulty, nil
}

// UserActivity bundles a user's submissions with their avatar for the
// derivation engines.
type UserActivity struct {
	Username    string           `json:"username"`
	Avatar      string           `json:"avatar"`
	Submissions []api.Submission `json:"submissions"`
}

// ActivityForUsers fetches submissions and avatars for every user
// concurrently and joins before returning. Result order matches input
// order; the fan-out order is irrelevant.
func (f *Fetcher) ActivityForUsers(ctx context.Context, usernames []string, limit int) ([]UserActivity, error) {
	return f.activityForUsers(ctx, usernames, limit, core.TTLSubmissions)
}

// DailyActivity is ActivityForUsers tuned for the daily leaderboard: a
// shorter TTL keeps today's counts fresher than the general feed.
func (f *Fetcher) DailyActivity(ctx context.Context, usernames []string) ([]UserActivity, error) {
	return f.activityForUsers(ctx, usernames, core.DailyLookback, core.TTLDailyLeaderboard)
}

func (f *Fetcher) activityForUsers(ctx context.Context, usernames []string, limit int, ttl time.Duration) ([]UserActivity, error) {
	results := make([]UserActivity, len(usernames))

	g, ctx := errgroup.WithContext(ctx)
	for i, username := range usernames {
		i, username := i, username
		g.Go(func() error {
			subs, err := f.recentSubmissions(ctx, username, limit, ttl)
			if err != nil {
				return err
			}
			avatar, err := f.Avatar(ctx, username)
			if err != nil {
				return err
			}
			results[i] = UserActivity{Username: username, Avatar: avatar, Submissions: subs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// StatsForUsers fetches solve statistics for every user concurrently,
// preserving input order.
func (f *Fetcher) StatsForUsers(ctx context.Context, usernames []string) ([]*api.SolveStats, error) {
	results := make([]*api.SolveStats, len(usernames))

	g, ctx := errgroup.WithContext(ctx)
	for i, username := range usernames {
		i, username := i, username
		g.Go(func() error {
			stats, err := f.UserStats(ctx, username)
			if err != nil {
				return err
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// AnnotateFeed fills each feed item's difficulty concurrently. Lookup
// failures leave the item unannotated; the feed renders either way.
func (f *Fetcher) AnnotateFeed(ctx context.Context, feed []FeedItem) {
	var g errgroup.Group
	for i := range feed {
		i := i
		g.Go(func() error {
			if d, err := f.Difficulty(ctx, feed[i].TitleSlug); err == nil {
				feed[i].Difficulty = d
			}
			return nil
		})
	}
	g.Wait()
}

// StrikeReport computes (or serves from cache) the strike report for a
// user set. The derived blob is keyed by the sorted user set, the
// maxStrikes setting and today's date, and its TTL never crosses the
// local midnight.
func (f *Fetcher) StrikeReport(ctx context.Context, usernames []string, maxStrikes int, loc *time.Location) (*StrikeReport, error) {
	today := core.TodayString(loc)
	key := cache.StrikesKey(usernames, maxStrikes, today)

	var report StrikeReport
	if ok, err := f.cache.Get(key, &report); err == nil && ok {
		f.log("cache hit: strikes")
		return &report, nil
	}

	users, err := f.ActivityForUsers(ctx, usernames, core.StrikeLookback)
	if err != nil {
		return nil, err
	}

	computed := ComputeStrikes(users, loc, maxStrikes)
	f.populate(key, computed, core.EffectiveStrikesTTL(loc))
	return &computed, nil
}

// ContestStandings computes (or serves from cache) the current week's
// contest ranking. The derived blob is keyed by the sorted user set and
// the week's Monday.
func (f *Fetcher) ContestStandings(ctx context.Context, usernames []string, loc *time.Location) ([]ContestEntry, error) {
	weekStart, weekEnd := core.CurrentWeekBounds(loc)
	key := cache.ContestKey(usernames, weekStart)

	var entries []ContestEntry
	if ok, err := f.cache.Get(key, &entries); err == nil && ok {
		f.log("cache hit: contest")
		return entries, nil
	}

	users, err := f.ActivityForUsers(ctx, usernames, core.ContestLookback)
	if err != nil {
		return nil, err
	}

	entries, err = ScoreWeek(ctx, users, weekStart, weekEnd, loc, f.Difficulty)
	if err != nil {
		return nil, err
	}
	f.populate(key, entries, core.TTLContest)
	return entries, nil
}
