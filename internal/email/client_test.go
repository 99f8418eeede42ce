package email

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/domain"
)

func mustEmail(t *testing.T, raw string) domain.SubscriberEmail {
	t.Helper()
	e, err := domain.ParseSubscriberEmail(raw)
	require.NoError(t, err)
	return e
}

func newTestClient(baseURL string) *Client {
	return NewClient(config.EmailConfig{
		BaseURL:            baseURL,
		SenderEmail:        "hello@ignite.com",
		AuthorizationToken: "test-token",
		TimeoutMS:          2000,
	})
}

func TestSendConfirmationPayload(t *testing.T) {
	var captured struct {
		method string
		path   string
		auth   string
		body   sendEmailRequest
	}

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured.body))
		w.WriteHeader(http.StatusOK)
	}))
	defer provider.Close()

	client := newTestClient(provider.URL)
	link := "http://localhost:8000/subscriptions/confirm?subscription_token=abc123"

	err := client.SendConfirmation(context.Background(), mustEmail(t, "ursula_le_guin@gmail.com"), link)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/email", captured.path)
	assert.Equal(t, "Bearer test-token", captured.auth)

	require.Len(t, captured.body.Personalizations, 1)
	require.Len(t, captured.body.Personalizations[0].To, 1)
	assert.Equal(t, "ursula_le_guin@gmail.com", captured.body.Personalizations[0].To[0].Email)
	assert.Equal(t, "hello@ignite.com", captured.body.From.Email)
	assert.Equal(t, "Welcome!", captured.body.Subject)
	require.Len(t, captured.body.Content, 1)
	assert.Equal(t, "text/plain", captured.body.Content[0].Type)
	assert.Contains(t, captured.body.Content[0].Value, link)
}

func TestSendConfirmationNon2xx(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer provider.Close()

	client := newTestClient(provider.URL)
	err := client.SendConfirmation(context.Background(), mustEmail(t, "a.b@example.com"), "http://x/confirm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSendConfirmationTimeout(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer provider.Close()

	client := NewClient(config.EmailConfig{
		BaseURL:            provider.URL,
		SenderEmail:        "hello@ignite.com",
		AuthorizationToken: "test-token",
		TimeoutMS:          50,
	})

	err := client.SendConfirmation(context.Background(), mustEmail(t, "a.b@example.com"), "http://x/confirm")
	require.Error(t, err)
}

type failingDoer struct{ err error }

func (d failingDoer) Do(req *http.Request) (*http.Response, error) { return nil, d.err }

func TestSendConfirmationTransportError(t *testing.T) {
	client := NewClientWithDoer(config.EmailConfig{
		BaseURL:            "http://provider.invalid",
		SenderEmail:        "hello@ignite.com",
		AuthorizationToken: "test-token",
	}, failingDoer{err: errors.New("connection refused")})

	err := client.SendConfirmation(context.Background(), mustEmail(t, "a.b@example.com"), "http://x/confirm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing request")
}

func TestSendConfirmationSingleAttempt(t *testing.T) {
	var calls int
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer provider.Close()

	client := newTestClient(provider.URL)
	_ = client.SendConfirmation(context.Background(), mustEmail(t, "a.b@example.com"), "http://x/confirm")
	assert.Equal(t, 1, calls, "dispatch must not retry")
}

func TestConfirmationBodies(t *testing.T) {
	link := "http://localhost:8000/subscriptions/confirm?subscription_token=tok"
	plain, html := ConfirmationBodies(link)

	assert.Contains(t, plain, link)
	assert.Contains(t, html, link)
	assert.True(t, strings.Contains(html, "<a href="), "html body should carry an anchor")
	assert.False(t, strings.Contains(plain, "<"), "plain body should carry no markup")
}
