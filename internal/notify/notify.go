// Package notify holds the dispatch adapters the alert router sends
// through. Adapters are single best-effort senders: no retry, no queue.
// An unconfigured adapter reports false without erroring so routing
// logic never depends on transport credentials being present.
package notify

import "context"

// SMSSender delivers a text message to one phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) bool
}

// EmailSender delivers one email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) bool
}
