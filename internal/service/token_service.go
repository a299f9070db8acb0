package service

import (
	"leoniportal/internal/domain"
)

// Claims is what a verified session token proves about its bearer.
type Claims struct {
	UserID domain.UserID
	Email  string
}

// TokenService issues and verifies signed session tokens. Verify collapses
// expired, malformed and forged tokens into one rejection error so callers
// cannot distinguish them.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (*Claims, error)
}
