package tracker

import "sort"

// FeedItem is one row of the merged activity feed. Difficulty is
// filled separately by AnnotateFeed and may stay empty on lookup
// failure.
type FeedItem struct {
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	Title      string `json:"title"`
	TitleSlug  string `json:"titleSlug"`
	Timestamp  int64  `json:"timestamp"`
	Lang       string `json:"lang"`
	Difficulty string `json:"difficulty,omitempty"`
}

// BuildFeed merges every user's recent submissions into a single feed,
// newest first. Ties keep the input user order.
func BuildFeed(users []UserActivity) []FeedItem {
	feed := make([]FeedItem, 0)
	for _, user := range users {
		for _, sub := range user.Submissions {
			feed = append(feed, FeedItem{
				Username:  user.Username,
				Avatar:    user.Avatar,
				Title:     sub.Title,
				TitleSlug: sub.TitleSlug,
				Timestamp: int64(sub.Timestamp),
				Lang:      sub.Lang,
			})
		}
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp > feed[j].Timestamp
	})
	return feed
}
