package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrDisabled is returned by a Slack notifier without a webhook.
var ErrDisabled = errors.New("slack disabled")

// StatusError reports a webhook response outside the 2xx class.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("slack non-2xx: %d", e.Code)
	}
	return fmt.Sprintf("slack non-2xx: %d: %s", e.Code, e.Body)
}

type Slack struct {
	Webhook string
	Client  *http.Client
}

func NewSlack(webhook string, timeout time.Duration) *Slack {
	webhook = strings.TrimSpace(webhook)
	if webhook == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Slack{
		Webhook: webhook,
		Client:  &http.Client{Timeout: timeout},
	}
}

// NewWebhooks builds one Slack notifier per webhook. A single webhook is
// returned as is; several are wrapped in Multi. With no usable webhook the
// result fails every Send with ErrDisabled.
func NewWebhooks(webhooks []string, timeout time.Duration) Notifier {
	var m Multi
	for _, w := range webhooks {
		if s := NewSlack(w, timeout); s != nil {
			m = append(m, s)
		}
	}
	switch len(m) {
	case 0:
		return (*Slack)(nil)
	case 1:
		return m[0]
	}
	return m
}

type slackPayload struct {
	Text string `json:"text"`
}

// Text builds the message body posted to the webhook.
func Text(title, text string) string {
	if text == "" {
		return "*" + title + "*"
	}
	return "*" + title + "*\n" + text
}

func (s *Slack) Send(ctx context.Context, title, text string) error {
	if s == nil || s.Webhook == "" {
		return ErrDisabled
	}
	body, err := json.Marshal(slackPayload{Text: Text(title, text)})
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Webhook, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post slack webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	return nil
}
