package domain

import "errors"

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrDuplicateParentEmail  = errors.New("parental email already registered")
	ErrDuplicateEmployeeID   = errors.New("employee id already taken")
	ErrUserNotFound          = errors.New("user not found")
	ErrDocumentNotFound      = errors.New("document request not found")
	ErrNotOwner              = errors.New("document request belongs to another user")
	ErrInvalidStatus         = errors.New("invalid document status")
	ErrTokenInvalidOrExpired = errors.New("reset token invalid or expired")
)
