package subscription

import "errors"

// Sentinel errors for the subscription service layer.
var (
	// ErrUnknownToken means the confirmation token was never issued (or the
	// caller made it up). It maps to an authorization failure, not a 404:
	// token knowledge is the proof of ownership.
	ErrUnknownToken = errors.New("subscription token not found")
)
