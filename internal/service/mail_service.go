package service

import "context"

// MailService is the fire-and-forget relay used for reset notifications.
type MailService interface {
	Send(ctx context.Context, to, subject, body string) error
}
