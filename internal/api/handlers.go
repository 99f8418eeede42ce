// Package api is the HTTP transport for the newsletter service. Handlers
// translate service errors into status codes; no business rules live here.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// Handlers holds the request handlers and their dependencies.
type Handlers struct {
	subscriptions *subscription.Service
	log           *logger.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(subscriptions *subscription.Service, log *logger.Logger) *Handlers {
	return &Handlers{subscriptions: subscriptions, log: log}
}

// HandleSubscribe accepts a newsletter sign-up.
//
//	POST /subscriptions
//	form fields: name, email
func (h *Handlers) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err := h.subscriptions.Subscribe(r.Context(), r.PostFormValue("name"), r.PostFormValue("email"))
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			h.log.Info("subscription rejected", "reason", vErr.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		// Generic 500: the cause goes to the log, never to the client.
		h.log.Error("subscription failed", "error", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleConfirm completes a subscription from an emailed confirmation link.
//
//	GET /subscriptions/confirm?subscription_token=<token>
func (h *Handlers) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("subscription_token")
	if token == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err := h.subscriptions.Confirm(r.Context(), token)
	if err != nil {
		if errors.Is(err, subscription.ErrUnknownToken) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		h.log.Error("confirmation failed", "error", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
