package impl

import "errors"

var (
	ErrMissingFields     = errors.New("missing required fields")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrInvalidPhone      = errors.New("invalid phone number format")
	ErrEmailsMustDiffer  = errors.New("personal and parental emails must differ")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrEmptyPassword     = errors.New("empty password")
	ErrBadImagePayload   = errors.New("image payload must be a base64 data URI")
	ErrUnsupportedImage  = errors.New("unsupported image type")
	ErrMalformedDocument = errors.New("malformed document id")
)
