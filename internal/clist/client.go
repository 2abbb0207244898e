// Package clist is the client for the clist.by v4 API, used to enrich the
// daily problem with a numeric difficulty rating.
//
// Enrichment is strictly best-effort: a missing credential or an unmatched
// slug yields a nil rating without error, and transport failures are meant
// to be logged and swallowed by the caller. A nil rating never blocks the
// daily workflow.
package clist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://clist.by/api/v4/json"

// resourceName keys rating lookups to LeetCode problems.
const resourceName = "leetcode.com"

// Client queries clist.by. An empty API key disables the client: every
// lookup returns a nil rating immediately.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a Client for the given API root and credential.
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether a credential is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// ProblemRating looks up the difficulty rating for a LeetCode problem slug.
// It returns (nil, nil) when the client is disabled or no record matches,
// and (nil, err) on transport or decoding failure.
func (c *Client) ProblemRating(ctx context.Context, slug string) (*int, error) {
	if !c.Enabled() {
		return nil, nil
	}

	q := url.Values{}
	q.Set("resource", resourceName)
	q.Set("slug", slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/problem/?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "ApiKey "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var body struct {
		Objects []struct {
			Rating int `json:"rating"`
		} `json:"objects"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(body.Objects) == 0 {
		return nil, nil
	}
	rating := body.Objects[0].Rating
	return &rating, nil
}
