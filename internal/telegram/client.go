package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the production Bot API root.
const DefaultBaseURL = "https://api.telegram.org"

// ErrNotModified is returned by EditMessageText when the new text equals the
// current one. The Bot API rejects such edits; callers that pre-compare
// against stored text should never see it, but it is classified anyway so
// the workflow can keep its records in sync instead of failing.
var ErrNotModified = errors.New("telegram: message is not modified")

// APIError is a non-ok Bot API response.
type APIError struct {
	Method      string
	Code        int
	Description string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// Client is a minimal Bot API client. It deliberately covers only the
// operations the bot consumes; it is not a general-purpose SDK.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a Client for the given Bot API root and token.
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SendMessage sends text to a chat and returns the new message id.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	var result struct {
		MessageID int `json:"message_id"`
	}
	err := c.call(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	}, &result)
	if err != nil {
		return 0, err
	}
	return result.MessageID, nil
}

// EditMessageText replaces the text of an existing message in place.
// Editing with unchanged content yields ErrNotModified.
func (c *Client) EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error {
	return c.call(ctx, "editMessageText", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}, nil)
}

// PinChatMessage pins a message without notifying chat members.
func (c *Client) PinChatMessage(ctx context.Context, chatID int64, messageID int) error {
	return c.call(ctx, "pinChatMessage", map[string]any{
		"chat_id":              chatID,
		"message_id":           messageID,
		"disable_notification": true,
	}, nil)
}

// UnpinChatMessage unpins a message. Unpinning something another actor
// already unpinned fails; callers treat that as best-effort.
func (c *Client) UnpinChatMessage(ctx context.Context, chatID int64, messageID int) error {
	return c.call(ctx, "unpinChatMessage", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
	}, nil)
}

// call POSTs one Bot API method and decodes the result envelope.
func (c *Client) call(ctx context.Context, method string, params map[string]any, result any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("telegram %s: marshal params: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram %s: build request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: execute request: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		OK          bool            `json:"ok"`
		Result      json.RawMessage `json:"result"`
		ErrorCode   int             `json:"error_code"`
		Description string          `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("telegram %s: decode response: %w", method, err)
	}
	if !envelope.OK {
		if strings.Contains(envelope.Description, "message is not modified") {
			return ErrNotModified
		}
		return &APIError{Method: method, Code: envelope.ErrorCode, Description: envelope.Description}
	}
	if result != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("telegram %s: decode result: %w", method, err)
		}
	}
	return nil
}
