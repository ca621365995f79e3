package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/dquaid/leetfriends/internal/api"
	"github.com/dquaid/leetfriends/internal/cache"
	"github.com/dquaid/leetfriends/internal/store"
)

// newFetcher wires a fetcher over an in-memory transport and store with
// a controllable clock.
func newFetcher(t *testing.T, forceCache bool) (*Fetcher, *api.InMemoryTransport, *time.Time) {
	t.Helper()
	loc := chicago(t)
	now := fixedNow(loc)

	transport := api.NewInMemoryTransport()
	c := cache.NewWithClock(store.NewMemoryStore(), func() time.Time { return now }, false)
	return NewFetcher(api.NewAPI(transport), c, false, forceCache), transport, &now
}

func TestRecentSubmissionsCachesAcrossCalls(t *testing.T) {
	f, transport, _ := newFetcher(t, false)
	transport.SeedSubmissions("alice", api.Submission{TitleSlug: "two-sum", Timestamp: 1721003400})

	ctx := context.Background()
	first, err := f.RecentSubmissions(ctx, "alice", 20)
	if err != nil {
		t.Fatalf("RecentSubmissions failed: %v", err)
	}
	second, err := f.RecentSubmissions(ctx, "alice", 20)
	if err != nil {
		t.Fatalf("RecentSubmissions failed: %v", err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("got %d then %d submissions, want 1 and 1", len(first), len(second))
	}
	if got := transport.RequestsMade(); got != 1 {
		t.Errorf("transport saw %d requests, want 1 (second call cached)", got)
	}
}

func TestRecentSubmissionsExpiryTriggersRefetch(t *testing.T) {
	f, transport, now := newFetcher(t, false)
	transport.SeedSubmissions("alice", api.Submission{TitleSlug: "two-sum", Timestamp: 1721003400})

	ctx := context.Background()
	if _, err := f.RecentSubmissions(ctx, "alice", 20); err != nil {
		t.Fatalf("RecentSubmissions failed: %v", err)
	}

	*now = now.Add(11 * time.Minute)
	if _, err := f.RecentSubmissions(ctx, "alice", 20); err != nil {
		t.Fatalf("RecentSubmissions failed: %v", err)
	}
	if got := transport.RequestsMade(); got != 2 {
		t.Errorf("transport saw %d requests, want 2 after expiry", got)
	}
}

func TestForceCacheNeverTouchesTransport(t *testing.T) {
	f, transport, _ := newFetcher(t, true)
	transport.SeedSubmissions("alice", api.Submission{TitleSlug: "two-sum", Timestamp: 1721003400})

	subs, err := f.RecentSubmissions(context.Background(), "alice", 20)
	if err != nil {
		t.Fatalf("RecentSubmissions failed: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("got %d submissions, want 0 on a cold forced cache", len(subs))
	}
	if got := transport.RequestsMade(); got != 0 {
		t.Errorf("transport saw %d requests, want 0 with forceCache", got)
	}
}

func TestStrikeReportCachesDerivedBlob(t *testing.T) {
	f, transport, _ := newFetcher(t, false)
	loc := chicago(t)
	transport.SeedSubmissions("alice", api.Submission{TitleSlug: "two-sum", Timestamp: 1721003400})
	transport.SeedUser("bob", "https://example.com/bob.png")

	ctx := context.Background()
	first, err := f.StrikeReport(ctx, []string{"alice", "bob"}, 3, loc)
	if err != nil {
		t.Fatalf("StrikeReport failed: %v", err)
	}
	if len(first.Strikes) != 2 {
		t.Fatalf("got %d strike results, want 2", len(first.Strikes))
	}

	baseline := transport.RequestsMade()
	second, err := f.StrikeReport(ctx, []string{"bob", "alice"}, 3, loc)
	if err != nil {
		t.Fatalf("StrikeReport failed: %v", err)
	}
	if got := transport.RequestsMade(); got != baseline {
		t.Errorf("transport saw %d extra requests, want 0 (derived blob cached, user order irrelevant)",
			got-baseline)
	}
	if len(second.Strikes) != 2 {
		t.Errorf("cached report has %d strike results, want 2", len(second.Strikes))
	}
}

func TestContestStandingsCachesDerivedBlob(t *testing.T) {
	f, transport, _ := newFetcher(t, false)
	loc := chicago(t)

	// Week bounds come from the wall clock, so seed a submission today.
	transport.SeedSubmissions("alice", subDaysAgo(time.Now(), loc, 0, "easy-one"))
	transport.SeedDifficulty("easy-one", "Easy")

	ctx := context.Background()
	first, err := f.ContestStandings(ctx, []string{"alice"}, loc)
	if err != nil {
		t.Fatalf("ContestStandings failed: %v", err)
	}
	if first[0].Points != 1 {
		t.Errorf("Points = %d, want 1", first[0].Points)
	}

	baseline := transport.RequestsMade()
	if _, err := f.ContestStandings(ctx, []string{"alice"}, loc); err != nil {
		t.Fatalf("ContestStandings failed: %v", err)
	}
	if got := transport.RequestsMade(); got != baseline {
		t.Errorf("transport saw %d extra requests, want 0", got-baseline)
	}
}

func TestActivityForUsersPreservesInputOrder(t *testing.T) {
	f, transport, _ := newFetcher(t, false)
	transport.SeedUser("carol", "c.png")
	transport.SeedUser("alice", "a.png")
	transport.SeedUser("bob", "b.png")

	users, err := f.ActivityForUsers(context.Background(), []string{"carol", "alice", "bob"}, 20)
	if err != nil {
		t.Fatalf("ActivityForUsers failed: %v", err)
	}
	want := []string{"carol", "alice", "bob"}
	for i, username := range want {
		if users[i].Username != username {
			t.Errorf("users[%d] = %s, want %s", i, users[i].Username, username)
		}
	}
}

func TestFetchSucceedsWhenStoreFails(t *testing.T) {
	loc := chicago(t)
	now := fixedNow(loc)

	st := store.NewMemoryStore()
	st.Fail = true
	transport := api.NewInMemoryTransport()
	transport.SeedSubmissions("alice", api.Submission{TitleSlug: "two-sum", Timestamp: 1721003400})

	c := cache.NewWithClock(st, func() time.Time { return now }, false)
	f := NewFetcher(api.NewAPI(transport), c, false, false)

	// Cache writes fail softly, so every read falls through to a fetch.
	for i := 0; i < 2; i++ {
		subs, err := f.RecentSubmissions(context.Background(), "alice", 20)
		if err != nil {
			t.Fatalf("RecentSubmissions failed: %v", err)
		}
		if len(subs) != 1 {
			t.Fatalf("got %d submissions, want 1", len(subs))
		}
	}
	if got := transport.RequestsMade(); got != 2 {
		t.Errorf("transport saw %d requests, want 2 (nothing cached while the store is down)", got)
	}
}

func TestAnnotateFeedFillsKnownDifficulties(t *testing.T) {
	f, transport, _ := newFetcher(t, false)
	transport.SeedDifficulty("two-sum", "Easy")

	feed := []FeedItem{
		{Username: "alice", TitleSlug: "two-sum"},
		{Username: "alice", TitleSlug: "no-such-problem"},
	}
	f.AnnotateFeed(context.Background(), feed)

	if feed[0].Difficulty != "Easy" {
		t.Errorf("feed[0].Difficulty = %q, want Easy", feed[0].Difficulty)
	}
	if feed[1].Difficulty != "" {
		t.Errorf("feed[1].Difficulty = %q, want empty on lookup failure", feed[1].Difficulty)
	}
}

func TestValidateUser(t *testing.T) {
	f, transport, _ := newFetcher(t, false)
	transport.SeedUser("alice", "a.png")

	ok, err := f.ValidateUser(context.Background(), "alice")
	if err != nil || !ok {
		t.Errorf("ValidateUser(alice) = %v, %v; want true, nil", ok, err)
	}

	ok, err = f.ValidateUser(context.Background(), "nobody")
	if err != nil || ok {
		t.Errorf("ValidateUser(nobody) = %v, %v; want false, nil", ok, err)
	}
}
