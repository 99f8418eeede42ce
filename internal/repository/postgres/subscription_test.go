package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/ignite/newsletter/internal/domain"
)

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newSub(t *testing.T) domain.NewSubscriber {
	t.Helper()
	name, err := domain.ParseSubscriberName("le guin")
	if err != nil {
		t.Fatal(err)
	}
	email, err := domain.ParseSubscriberEmail("ursula_le_guin@gmail.com")
	if err != nil {
		t.Fatal(err)
	}
	return domain.NewSubscriber{Name: name, Email: email}
}

func TestInsertSubscriber(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSubscriptionRepo(db)
	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO subscriptions").
		WithArgs(sqlmock.AnyArg(), "ursula_le_guin@gmail.com", "le guin", at, string(domain.SubscriberPendingConfirmation)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := repo.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}

	id, err := repo.InsertSubscriber(context.Background(), tx, newSub(t), at)
	if err != nil {
		t.Fatalf("InsertSubscriber() error: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("generated id %q is not a uuid: %v", id, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInsertSubscriberDuplicateEmail(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSubscriptionRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO subscriptions").
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "subscriptions_email_key"`))

	tx, err := repo.Begin(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	_, err = repo.InsertSubscriber(context.Background(), tx, newSub(t), time.Now().UTC())
	if err == nil {
		t.Fatal("expected error on duplicate email")
	}
}

func TestStoreToken(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSubscriptionRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO subscription_tokens").
		WithArgs("sometoken0123456789abcdef", "subscriber-id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := repo.Begin(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.StoreToken(context.Background(), tx, "subscriber-id-1", "sometoken0123456789abcdef"); err != nil {
		t.Fatalf("StoreToken() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSubscriberIDByToken(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSubscriptionRepo(db)

	mock.ExpectQuery("SELECT subscriber_id FROM subscription_tokens").
		WithArgs("knowntoken").
		WillReturnRows(sqlmock.NewRows([]string{"subscriber_id"}).AddRow("subscriber-id-1"))

	id, found, err := repo.SubscriberIDByToken(context.Background(), "knowntoken")
	if err != nil {
		t.Fatalf("SubscriberIDByToken() error: %v", err)
	}
	if !found || id != "subscriber-id-1" {
		t.Errorf("got (%q, %v), want (subscriber-id-1, true)", id, found)
	}
}

func TestSubscriberIDByTokenUnknown(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSubscriptionRepo(db)

	mock.ExpectQuery("SELECT subscriber_id FROM subscription_tokens").
		WithArgs("doesnotexist").
		WillReturnRows(sqlmock.NewRows([]string{"subscriber_id"}))

	id, found, err := repo.SubscriberIDByToken(context.Background(), "doesnotexist")
	if err != nil {
		t.Fatalf("unknown token must not be an error, got: %v", err)
	}
	if found || id != "" {
		t.Errorf("got (%q, %v), want (\"\", false)", id, found)
	}
}

func TestSubscriberIDByTokenConnectivityFailure(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSubscriptionRepo(db)

	mock.ExpectQuery("SELECT subscriber_id FROM subscription_tokens").
		WillReturnError(errors.New("connection refused"))

	_, _, err := repo.SubscriberIDByToken(context.Background(), "whatever")
	if err == nil {
		t.Fatal("expected error on connectivity failure")
	}
}

func TestMarkConfirmedIsIdempotent(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSubscriptionRepo(db)

	mock.ExpectExec("UPDATE subscriptions SET status").
		WithArgs(string(domain.SubscriberConfirmed), "subscriber-id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Second run updates zero rows (already confirmed) and still succeeds.
	mock.ExpectExec("UPDATE subscriptions SET status").
		WithArgs(string(domain.SubscriberConfirmed), "subscriber-id-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.MarkConfirmed(context.Background(), "subscriber-id-1"); err != nil {
		t.Fatalf("MarkConfirmed() error: %v", err)
	}
	if err := repo.MarkConfirmed(context.Background(), "subscriber-id-1"); err != nil {
		t.Fatalf("second MarkConfirmed() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSubscriberByEmail(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSubscriptionRepo(db)
	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, email, name, subscribed_at, status").
		WithArgs("ursula_le_guin@gmail.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "subscribed_at", "status"}).
			AddRow("subscriber-id-1", "ursula_le_guin@gmail.com", "le guin", at, "pending_confirmation"))

	sub, err := repo.SubscriberByEmail(context.Background(), "ursula_le_guin@gmail.com")
	if err != nil {
		t.Fatalf("SubscriberByEmail() error: %v", err)
	}
	if sub.Status != domain.SubscriberPendingConfirmation {
		t.Errorf("status = %q, want pending_confirmation", sub.Status)
	}
	if sub.Name != "le guin" {
		t.Errorf("name = %q, want %q", sub.Name, "le guin")
	}
}
