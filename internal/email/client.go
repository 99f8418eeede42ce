// Package email implements the transactional email provider client.
//
// The client performs exactly one outbound HTTP call per send with a bounded
// timeout. It never retries: whether a failed send is retried (and how) is a
// decision that belongs to the caller, and the subscribe flow deliberately
// treats a failed send as fatal.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/domain"
)

// Doer executes HTTP requests. *http.Client satisfies it; tests inject fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the transactional email provider API.
type Client struct {
	baseURL    string
	sender     string
	authToken  string
	httpClient Doer
}

// NewClient creates a provider client from configuration. The underlying
// http.Client carries the configured timeout, which is the only bounded-wait
// mechanism on the subscribe path.
func NewClient(cfg config.EmailConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		sender:    cfg.SenderEmail,
		authToken: cfg.AuthorizationToken,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// NewClientWithDoer creates a provider client with an injected HTTP doer.
func NewClientWithDoer(cfg config.EmailConfig, doer Doer) *Client {
	c := NewClient(cfg)
	c.httpClient = doer
	return c
}

// SendConfirmation builds the confirmation email for the given link and
// submits it to the provider. The provider payload schema carries only the
// text/plain part; the HTML rendering exists for providers that accept both.
func (c *Client) SendConfirmation(ctx context.Context, recipient domain.SubscriberEmail, confirmationLink string) error {
	plainBody, _ := ConfirmationBodies(confirmationLink)
	return c.send(ctx, recipient.String(), "Welcome!", plainBody)
}

// ConfirmationBodies renders the plain-text and HTML confirmation bodies.
// Both embed the confirmation link.
func ConfirmationBodies(confirmationLink string) (plain, html string) {
	plain = fmt.Sprintf(
		"Welcome to our newsletter!\nVisit %s to confirm your subscription.",
		confirmationLink,
	)
	html = fmt.Sprintf(
		`Welcome to our newsletter!<br />Click <a href=%q>here</a> to confirm your subscription.`,
		confirmationLink,
	)
	return plain, html
}

func (c *Client) send(ctx context.Context, recipient, subject, textContent string) error {
	payload := sendEmailRequest{
		Personalizations: []personalization{
			{To: []emailAddress{{Email: recipient}}},
		},
		From:    emailAddress{Email: c.sender},
		Subject: subject,
		Content: []contentPart{
			{Type: "text/plain", Value: textContent},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return nil
}
