package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Messenger delivers chat messages to a destination. On the webhook flow
// the destination is the payload's response URL.
type Messenger interface {
	SendMessage(ctx context.Context, dest, text string) error
	SendAttachment(ctx context.Context, dest, text string, att Attachment) error
}

// Responder posts messages to interactive-callback response URLs.
type Responder struct {
	client *http.Client
	log    *slog.Logger
}

var _ Messenger = (*Responder)(nil)

// NewResponder creates a Responder with a bounded request timeout.
func NewResponder(timeout time.Duration, log *slog.Logger) *Responder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	return &Responder{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// SendMessage posts a plain-text message to the destination URL.
func (r *Responder) SendMessage(ctx context.Context, dest, text string) error {
	return r.post(ctx, dest, &Message{Text: text})
}

// SendAttachment posts a message with one interactive attachment.
func (r *Responder) SendAttachment(ctx context.Context, dest, text string, att Attachment) error {
	return r.post(ctx, dest, &Message{Text: text, Attachments: []Attachment{att}})
}

func (r *Responder) post(ctx context.Context, dest string, msg *Message) error {
	msg.ResponseType = "in_channel"
	msg.ReplaceOriginal = true

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode response message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dest, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build response request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Error("failed to post response", "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		r.log.Error("response url rejected message", "status", resp.StatusCode)
		return fmt.Errorf("response url returned status %d", resp.StatusCode)
	}

	return nil
}
