package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dquaid/leetfriends/internal/core"
	"golang.org/x/time/rate"
)

// ErrUnknownUser is returned when the API reports no matched user for a
// username.
var ErrUnknownUser = errors.New("unknown user")

// APIError is returned when the LeetCode API returns an error response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Client is the HTTP transport for the LeetCode GraphQL endpoint.
// Requests are rate-limited; the public endpoint throttles aggressively.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	verbose    bool
}

// NewClient creates a new GraphQL client.
func NewClient(verbose bool) *Client {
	return &Client{
		endpoint: core.GraphQLEndpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		verbose: verbose,
	}
}

// NewClientWithEndpoint creates a client against a custom endpoint
// (for testing).
func NewClientWithEndpoint(endpoint string, verbose bool) *Client {
	c := NewClient(verbose)
	c.endpoint = endpoint
	return c
}

// log writes a message to stderr if verbose mode is enabled.
func (c *Client) log(msg string) {
	core.Eprint(fmt.Sprintf("[API] %s", msg), c.verbose)
}

// graphqlRequest is the POST body for a GraphQL query.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphqlResponse is the envelope around every GraphQL response.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query performs a GraphQL POST and decodes the data object into out.
// Retries automatically on HTTP 5xx or 429 with exponential back-off,
// honoring Retry-After.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	maxRetries := 3
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries && ctx.Err() == nil {
				wait := time.Duration(1<<(attempt-1)) * time.Second
				c.log(fmt.Sprintf("Attempt %d failed (connection error); retrying in %v…", attempt, wait))
				if !sleepCtx(ctx, wait) {
					return ctx.Err()
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		// Retryable errors
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			lastErr = &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
			if attempt < maxRetries {
				wait := time.Duration(1<<(attempt-1)) * time.Second
				if resp.StatusCode == http.StatusTooManyRequests {
					if ra := resp.Header.Get("Retry-After"); ra != "" {
						if secs, err := strconv.Atoi(ra); err == nil {
							wait = time.Duration(secs) * time.Second
						}
					}
				}
				c.log(fmt.Sprintf("Attempt %d failed (HTTP %d); retrying in %v…", attempt, resp.StatusCode, wait))
				if !sleepCtx(ctx, wait) {
					return ctx.Err()
				}
				continue
			}
			return lastErr
		}

		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}

		var envelope graphqlResponse
		if err := json.Unmarshal(respBody, &envelope); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		if len(envelope.Errors) > 0 {
			msgs := make([]string, len(envelope.Errors))
			for i, e := range envelope.Errors {
				msgs[i] = e.Message
			}
			return fmt.Errorf("graphql errors: %s", strings.Join(msgs, ", "))
		}

		c.log(fmt.Sprintf("Response: HTTP %d, %d bytes", resp.StatusCode, len(respBody)))

		if out != nil {
			if err := json.Unmarshal(envelope.Data, out); err != nil {
				return fmt.Errorf("failed to decode data: %w", err)
			}
		}
		return nil
	}

	return lastErr
}

// sleepCtx sleeps for d or until ctx is done; returns false on cancel.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// API wraps a Transport with the typed LeetCode operations.
type API struct {
	transport Transport
}

// NewAPI creates the typed API over the given transport.
func NewAPI(transport Transport) *API {
	return &API{transport: transport}
}

// RecentSubmissions fetches a user's most recent accepted submissions,
// stamping the username onto each (the API omits it).
func (a *API) RecentSubmissions(ctx context.Context, username string, limit int) ([]Submission, error) {
	var resp struct {
		RecentAcSubmissionList []Submission `json:"recentAcSubmissionList"`
	}
	vars := map[string]any{"username": username, "limit": limit}
	if err := a.transport.Query(ctx, queryRecentSubmissions, vars, &resp); err != nil {
		return nil, fmt.Errorf("fetch submissions for %s: %w", username, err)
	}

	subs := resp.RecentAcSubmissionList
	for i := range subs {
		subs[i].Username = username
	}
	return subs, nil
}

// UserStats fetches a user's per-difficulty solve statistics.
func (a *API) UserStats(ctx context.Context, username string) (*SolveStats, error) {
	var resp struct {
		MatchedUser *struct {
			SubmitStats SolveStats `json:"submitStats"`
		} `json:"matchedUser"`
	}
	vars := map[string]any{"username": username}
	if err := a.transport.Query(ctx, queryUserStats, vars, &resp); err != nil {
		return nil, fmt.Errorf("fetch stats for %s: %w", username, err)
	}
	if resp.MatchedUser == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}

	stats := resp.MatchedUser.SubmitStats
	stats.Username = username
	return &stats, nil
}

// Profile fetches a user's public profile. Returns (nil, nil) when the
// username does not exist; callers use this for username validation.
func (a *API) Profile(ctx context.Context, username string) (*Profile, error) {
	var resp struct {
		MatchedUser *struct {
			Profile Profile `json:"profile"`
		} `json:"matchedUser"`
	}
	vars := map[string]any{"username": username}
	if err := a.transport.Query(ctx, queryProfile, vars, &resp); err != nil {
		return nil, fmt.Errorf("fetch profile for %s: %w", username, err)
	}
	if resp.MatchedUser == nil {
		return nil, nil
	}
	return &resp.MatchedUser.Profile, nil
}

// Difficulty fetches a problem's difficulty ("Easy", "Medium", "Hard")
// by title slug.
func (a *API) Difficulty(ctx context.Context, titleSlug string) (string, error) {
	var resp struct {
		Question *struct {
			Difficulty string `json:"difficulty"`
		} `json:"question"`
	}
	vars := map[string]any{"titleSlug": titleSlug}
	if err := a.transport.Query(ctx, queryDifficulty, vars, &resp); err != nil {
		return "", fmt.Errorf("fetch difficulty for %s: %w", titleSlug, err)
	}
	if resp.Question == nil {
		return "", fmt.Errorf("unknown problem: %s", titleSlug)
	}
	return resp.Question.Difficulty, nil
}
