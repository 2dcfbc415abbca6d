package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// MailClient delivers messages through a Postmark-compatible HTTP mail API
type MailClient struct {
	serverToken string
	fromEmail   string
	apiURL      string
	httpClient  *http.Client
}

type MailOption func(*MailClient)

func WithHTTPClient(c *http.Client) MailOption {
	return func(mc *MailClient) {
		mc.httpClient = c
	}
}

func NewMailClient(serverToken, fromEmail, apiURL string, opts ...MailOption) *MailClient {
	c := &MailClient{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		apiURL:      apiURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *MailClient) Configured() bool {
	return c.serverToken != ""
}

type outboundEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	TextBody string `json:"TextBody"`
}

// Send posts the message to the mail API
func (c *MailClient) Send(ctx context.Context, msg Message) error {
	if !c.Configured() {
		return fmt.Errorf("mail client not configured: missing server token")
	}

	to := msg.ToEmail
	if msg.ToName != "" {
		to = fmt.Sprintf("%s <%s>", msg.ToName, msg.ToEmail)
	}

	payload := outboundEmail{
		From:     c.fromEmail,
		To:       to,
		Subject:  msg.Subject,
		TextBody: msg.Body,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail API error: status %d", resp.StatusCode)
	}

	return nil
}
