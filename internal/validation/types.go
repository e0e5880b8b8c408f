package validation

import "strings"

// User is the Telegram sender.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// Chat identifies where the reply goes.
type Chat struct {
	ID int64 `json:"id"`
}

// Message is the inbound Telegram message.
type Message struct {
	MessageID int64  `json:"message_id" validate:"required"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// Update is the webhook payload from Telegram.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message" validate:"required"`
}

// SenderName resolves a stable per-user identifier: the handle when set,
// the first name otherwise, "User" as a last resort.
func (m *Message) SenderName() string {
	if m.From != nil {
		if m.From.Username != "" {
			return m.From.Username
		}
		if m.From.FirstName != "" {
			return m.From.FirstName
		}
	}
	return "User"
}

// TrimmedText is the message text with surrounding whitespace removed.
func (m *Message) TrimmedText() string {
	return strings.TrimSpace(m.Text)
}
