package service

// PasswordService turns plaintext passwords into opaque digests and checks
// candidates against a stored digest in constant time.
type PasswordService interface {
	Hash(password string) (digest string, err error)
	Verify(password, digest string) bool
}
