// Package telegram implements the chat transport: a thin Bot API client for
// the four operations the bot consumes (send, edit, pin, unpin) plus the
// inbound webhook payload types.
package telegram

// Update is the inbound webhook payload. Only the fields the bot reads are
// mapped; everything else is ignored.
type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is an inbound or outbound chat message.
type Message struct {
	MessageID int    `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// Chat identifies the group or private chat a message belongs to.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type,omitempty"`
}
