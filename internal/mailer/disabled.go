package mailer

import (
	"context"
	"errors"
)

// Disabled stands in when no relay is configured. Every send fails, so
// the contact endpoint degrades to a server error instead of silently
// dropping submissions.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) error {
	return errors.New("mail dispatch is not configured")
}
