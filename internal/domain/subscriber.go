package domain

import "time"

// SubscriberStatus enumerates the lifecycle states of a subscriber.
type SubscriberStatus string

const (
	SubscriberPendingConfirmation SubscriberStatus = "pending_confirmation"
	SubscriberConfirmed           SubscriberStatus = "confirmed"
)

// Subscriber represents a single newsletter recipient. The name and email
// fields hold values that already passed validation; a Subscriber is only
// created after both Parse* constructors succeeded.
type Subscriber struct {
	ID           string           `json:"id" db:"id"`
	Email        string           `json:"email" db:"email"`
	Name         string           `json:"name" db:"name"`
	SubscribedAt time.Time        `json:"subscribed_at" db:"subscribed_at"`
	Status       SubscriberStatus `json:"status" db:"status"`
}

// NewSubscriber pairs a validated name and email for insertion. It exists so
// the orchestrator can hand the store a single value instead of loose fields.
type NewSubscriber struct {
	Name  SubscriberName
	Email SubscriberEmail
}
