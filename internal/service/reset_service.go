package service

import "context"

// ResetService drives the forgot-password flow. RequestReset is
// enumeration-resistant: it reports success whether or not the email is
// registered, and only a store failure surfaces as an error.
type ResetService interface {
	RequestReset(ctx context.Context, email string) error
	ConsumeReset(ctx context.Context, token, newPassword string) error
}
