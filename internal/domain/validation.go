package domain

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/rivo/uniseg"
)

// MaxNameGraphemes is the upper bound on a subscriber name, counted in
// user-perceived characters (grapheme clusters), not bytes or runes.
const MaxNameGraphemes = 256

// forbiddenNameChars are rejected outright. They have no place in a display
// name and are the usual suspects in injection payloads.
const forbiddenNameChars = `/()"<>\{}`

// ValidationError reports why an input field was rejected. It carries no
// internal state and is safe to surface to clients.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SubscriberName is a display name that passed validation. The only way to
// obtain a non-zero value is ParseSubscriberName.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates and normalizes a raw display name. The input
// is trimmed; the trimmed value must be non-empty, at most MaxNameGraphemes
// grapheme clusters, and free of forbidden characters.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return SubscriberName{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if uniseg.GraphemeClusterCount(trimmed) > MaxNameGraphemes {
		return SubscriberName{}, &ValidationError{
			Field:  "name",
			Reason: fmt.Sprintf("must not exceed %d characters", MaxNameGraphemes),
		}
	}
	if strings.ContainsAny(trimmed, forbiddenNameChars) {
		return SubscriberName{}, &ValidationError{Field: "name", Reason: "contains forbidden characters"}
	}
	return SubscriberName{value: trimmed}, nil
}

// String returns the validated, trimmed name.
func (n SubscriberName) String() string { return n.value }

// SubscriberEmail is an email address that passed validation. The only way to
// obtain a non-zero value is ParseSubscriberEmail.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates a raw email address. The address must parse
// under RFC 5322 grammar and have exactly one @ with non-empty local and
// domain parts. The value is stored as given (no case folding); storage-level
// uniqueness is the dedupe mechanism, not normalization.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if raw == "" {
		return SubscriberEmail{}, &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return SubscriberEmail{}, &ValidationError{Field: "email", Reason: "not a valid email address"}
	}
	local, dom, ok := strings.Cut(raw, "@")
	if !ok || local == "" || dom == "" || strings.Contains(dom, "@") {
		return SubscriberEmail{}, &ValidationError{Field: "email", Reason: "not a valid email address"}
	}
	return SubscriberEmail{value: raw}, nil
}

// String returns the validated email address.
func (e SubscriberEmail) String() string { return e.value }
