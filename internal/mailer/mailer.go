package mailer

import "context"

// Message is one outbound transactional email. Text and HTML carry the
// same content; clients pick whichever rendering they support.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends a single message. Implementations must not retry on their
// own: a duplicate contact notification is worse than a lost one, and the
// caller surfaces failures to the submitter for an explicit resend.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
