// Package leetcode is the client for the LeetCode GraphQL API. It covers the
// two reads the bot needs: the active daily challenge question and a user's
// recent accepted submissions.
//
// Failures (transport errors, non-2xx statuses, GraphQL error payloads,
// malformed bodies) are reported as *UpstreamError so callers can classify
// provider trouble without inspecting message text.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEndpoint is the production GraphQL endpoint.
const DefaultEndpoint = "https://leetcode.com/graphql/"

// siteBase resolves the relative daily-challenge link to an absolute URL.
const siteBase = "https://leetcode.com"

// UpstreamError wraps any failure talking to the LeetCode API.
type UpstreamError struct {
	Op  string // "daily" or "recent_accepted"
	Err error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string { return fmt.Sprintf("leetcode %s: %v", e.Op, e.Err) }

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *UpstreamError) Unwrap() error { return e.Err }

// Problem is the daily challenge question as the bot consumes it.
type Problem struct {
	QuestionID string // frontend id, e.g. "1"
	Title      string // e.g. "Two Sum"
	TitleSlug  string // e.g. "two-sum"
	Difficulty string // "Easy" | "Medium" | "Hard"
	URL        string // absolute problem URL
}

// Submission is one entry of a user's recent accepted-submission list.
type Submission struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	Timestamp string `json:"timestamp"`
}

// Client talks to the LeetCode GraphQL endpoint. The zero value is not
// usable; construct with NewClient.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient returns a Client for the given endpoint. An empty endpoint
// selects DefaultEndpoint.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

const dailyQuery = `
query questionOfTodayV2 {
    activeDailyCodingChallengeQuestion {
        date
        link
        question {
            titleSlug
            title
            questionFrontendId
            difficulty
        }
    }
}`

const recentAcceptedQuery = `
query recentAcSubmissions($username: String!, $limit: Int!) {
    recentAcSubmissionList(username: $username, limit: $limit) {
        id
        title
        titleSlug
        timestamp
    }
}`

// DailyProblem fetches today's active daily challenge question.
func (c *Client) DailyProblem(ctx context.Context) (*Problem, error) {
	var data struct {
		ActiveDailyCodingChallengeQuestion struct {
			Date     string `json:"date"`
			Link     string `json:"link"`
			Question struct {
				TitleSlug          string `json:"titleSlug"`
				Title              string `json:"title"`
				QuestionFrontendID string `json:"questionFrontendId"`
				Difficulty         string `json:"difficulty"`
			} `json:"question"`
		} `json:"activeDailyCodingChallengeQuestion"`
	}
	if err := c.query(ctx, dailyQuery, nil, &data); err != nil {
		return nil, &UpstreamError{Op: "daily", Err: err}
	}

	daily := data.ActiveDailyCodingChallengeQuestion
	if daily.Question.TitleSlug == "" {
		return nil, &UpstreamError{Op: "daily", Err: fmt.Errorf("empty question payload")}
	}
	return &Problem{
		QuestionID: daily.Question.QuestionFrontendID,
		Title:      daily.Question.Title,
		TitleSlug:  daily.Question.TitleSlug,
		Difficulty: daily.Question.Difficulty,
		URL:        siteBase + daily.Link,
	}, nil
}

// RecentAccepted fetches up to limit most recent accepted submissions for
// username, newest first.
func (c *Client) RecentAccepted(ctx context.Context, username string, limit int) ([]Submission, error) {
	var data struct {
		RecentAcSubmissionList []Submission `json:"recentAcSubmissionList"`
	}
	vars := map[string]any{"username": username, "limit": limit}
	if err := c.query(ctx, recentAcceptedQuery, vars, &data); err != nil {
		return nil, &UpstreamError{Op: "recent_accepted", Err: err}
	}
	return data.RecentAcSubmissionList, nil
}

// SubmissionURL builds the absolute detail URL for an accepted submission id.
func SubmissionURL(id string) string {
	return fmt.Sprintf("%s/submissions/detail/%s/", siteBase, id)
}

// query POSTs one GraphQL request and decodes the "data" object into out.
// A GraphQL "errors" array in an otherwise-200 response is a failure.
func (c *Client) query(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("missing data object")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
