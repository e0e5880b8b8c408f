// Package telegram is a minimal Bot API client: the bot only ever replies in
// the thread it was spoken to in, so sendMessage is the whole surface.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Client talks to the Telegram Bot API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for the given bot token.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID           int64  `json:"chat_id"`
	Text             string `json:"text"`
	ReplyToMessageID int64  `json:"reply_to_message_id,omitempty"`
	ParseMode        string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendReply posts text as an HTML-formatted reply to the given message.
func (c *Client) SendReply(ctx context.Context, chatID, replyToMessageID int64, text string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:           chatID,
		Text:             text,
		ReplyToMessageID: replyToMessageID,
		ParseMode:        "HTML",
	})
	if err != nil {
		return fmt.Errorf("marshal sendMessage: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read sendMessage response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sendMessage status %d: %s", resp.StatusCode, body)
	}

	var out sendMessageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode sendMessage response: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("sendMessage rejected: %s", out.Description)
	}
	return nil
}
