package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/pkg/logger"
)

// Service orchestrates subscriber onboarding and confirmation. Safe for
// concurrent use; each Subscribe call owns its own transaction.
type Service struct {
	repo    Repository
	sender  Sender
	baseURL string
	log     *logger.Logger
}

// NewService creates the onboarding service. baseURL is the public origin
// embedded in confirmation links.
func NewService(repo Repository, sender Sender, baseURL string, log *logger.Logger) *Service {
	return &Service{repo: repo, sender: sender, baseURL: baseURL, log: log}
}

// Subscribe runs the onboarding workflow for raw form input, in strict order:
// validate, begin transaction, insert subscriber, generate and store token,
// send confirmation email, commit. Every failure before commit aborts the
// transaction, so no partial subscriber is ever visible. Validation failures
// return a *domain.ValidationError before any side effect.
func (s *Service) Subscribe(ctx context.Context, rawName, rawEmail string) error {
	name, err := domain.ParseSubscriberName(rawName)
	if err != nil {
		return err
	}
	email, err := domain.ParseSubscriberEmail(rawEmail)
	if err != nil {
		return err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	// No-op once the transaction committed; the sole rollback mechanism for
	// every earlier failure, including a rejected email send.
	defer tx.Rollback()

	sub := domain.NewSubscriber{Name: name, Email: email}
	subscriberID, err := s.repo.InsertSubscriber(ctx, tx, sub, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("inserting subscriber: %w", err)
	}

	token, err := GenerateToken()
	if err != nil {
		return fmt.Errorf("generating subscription token: %w", err)
	}
	if err := s.repo.StoreToken(ctx, tx, subscriberID, token); err != nil {
		return fmt.Errorf("storing subscription token: %w", err)
	}

	link := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", s.baseURL, token)
	if err := s.sender.SendConfirmation(ctx, email, link); err != nil {
		return fmt.Errorf("sending confirmation email: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.log.Info("new subscriber pending confirmation",
		"subscriber_id", subscriberID,
		"subscriber_email", email.String(),
	)
	return nil
}

// Confirm completes onboarding for the subscriber a token was issued to.
// Unknown tokens return ErrUnknownToken; confirming an already-confirmed
// subscriber succeeds (the status update is idempotent).
func (s *Service) Confirm(ctx context.Context, token string) error {
	subscriberID, found, err := s.repo.SubscriberIDByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("looking up subscription token: %w", err)
	}
	if !found {
		return ErrUnknownToken
	}

	if err := s.repo.MarkConfirmed(ctx, subscriberID); err != nil {
		return fmt.Errorf("confirming subscriber: %w", err)
	}

	s.log.Info("subscriber confirmed", "subscriber_id", subscriberID)
	return nil
}
