// Package subscription implements the subscriber onboarding workflow.
//
// Subscribe validates untrusted form input, persists the subscriber and a
// single-use confirmation token inside one database transaction, and sends
// the confirmation email before that transaction commits. The ordering is
// deliberate: a subscriber row is never visible as committed unless the
// provider at least accepted the confirmation email. Reordering the send
// after the commit changes the failure semantics.
//
// The service layer contains the business logic and depends on the
// Repository and Sender interfaces defined in repository.go. It never
// imports net/http and never produces HTTP status codes.
package subscription
