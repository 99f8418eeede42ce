// Package postgres implements the subscription repository against PostgreSQL.
//
// Schema (owned by the external migration manager):
//
//	subscriptions(id uuid PK, email text UNIQUE, name text,
//	              subscribed_at timestamptz, status text)
//	subscription_tokens(subscription_token text PK, subscriber_id uuid FK)
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/newsletter/internal/domain"
)

// SubscriptionRepo implements subscription.Repository against PostgreSQL.
type SubscriptionRepo struct{ db *sql.DB }

// NewSubscriptionRepo creates a Postgres-backed subscription repository.
func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

// Begin opens a transaction on the pooled connection.
func (r *SubscriptionRepo) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

// InsertSubscriber inserts a new pending subscriber inside the caller's
// transaction and returns the generated id. A duplicate email violates the
// unique constraint and surfaces as an error.
func (r *SubscriptionRepo) InsertSubscriber(ctx context.Context, tx *sql.Tx, sub domain.NewSubscriber, at time.Time) (string, error) {
	id := uuid.New().String()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`, id, sub.Email.String(), sub.Name.String(), at.UTC(), domain.SubscriberPendingConfirmation)
	if err != nil {
		return "", fmt.Errorf("insert subscriber: %w", err)
	}
	return id, nil
}

// StoreToken inserts the token-to-subscriber mapping inside the caller's
// transaction. The primary key on subscription_token enforces uniqueness.
func (r *SubscriptionRepo) StoreToken(ctx context.Context, tx *sql.Tx, subscriberID, token string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		VALUES ($1, $2)
	`, token, subscriberID)
	if err != nil {
		return fmt.Errorf("store subscription token: %w", err)
	}
	return nil
}

// SubscriberIDByToken resolves a confirmation token to its subscriber id.
// An unknown token is not an error.
func (r *SubscriptionRepo) SubscriberIDByToken(ctx context.Context, token string) (string, bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = $1`,
		token,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup subscription token: %w", err)
	}
	return id, true, nil
}

// MarkConfirmed transitions the subscriber to confirmed. Running it against
// an already-confirmed subscriber is a no-op update.
func (r *SubscriptionRepo) MarkConfirmed(ctx context.Context, subscriberID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = $1 WHERE id = $2`,
		domain.SubscriberConfirmed, subscriberID,
	)
	if err != nil {
		return fmt.Errorf("mark subscriber confirmed: %w", err)
	}
	return nil
}

// SubscriberByEmail fetches a subscriber row by email. Used by operational
// tooling and tests to assert persisted state.
func (r *SubscriptionRepo) SubscriberByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	var s domain.Subscriber
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, subscribed_at, status
		FROM subscriptions
		WHERE email = $1
	`, email).Scan(&s.ID, &s.Email, &s.Name, &s.SubscribedAt, &s.Status)
	if err != nil {
		return nil, fmt.Errorf("subscriber by email: %w", err)
	}
	return &s, nil
}
