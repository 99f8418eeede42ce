package subscription

import (
	"context"
	"database/sql"
	"time"

	"github.com/ignite/newsletter/internal/domain"
)

// Repository defines the data access contract for subscriber onboarding.
//
// The tx-taking operations participate in the caller's transaction and must
// never commit or roll it back; the orchestrator owns the transaction
// lifecycle. Lookup and confirmation run outside any multi-write transaction.
type Repository interface {
	// Begin opens a new database transaction.
	Begin(ctx context.Context) (*sql.Tx, error)

	// InsertSubscriber inserts a new subscriber with status
	// pending_confirmation and returns its generated id.
	InsertSubscriber(ctx context.Context, tx *sql.Tx, sub domain.NewSubscriber, at time.Time) (string, error)

	// StoreToken inserts the token-to-subscriber mapping. Token uniqueness is
	// enforced by the insertion path; a duplicate surfaces as an error.
	StoreToken(ctx context.Context, tx *sql.Tx, subscriberID, token string) error

	// SubscriberIDByToken returns the subscriber id a token was issued for.
	// An unknown token is (_, false, nil), not an error.
	SubscriberIDByToken(ctx context.Context, token string) (string, bool, error)

	// MarkConfirmed sets the subscriber's status to confirmed. Idempotent.
	MarkConfirmed(ctx context.Context, subscriberID string) error
}

// Sender dispatches the confirmation email. Implementations report failure
// and never retry; retry policy belongs to the caller.
type Sender interface {
	SendConfirmation(ctx context.Context, recipient domain.SubscriberEmail, confirmationLink string) error
}
