package impl

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

type argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// PasswordServiceImpl hashes with argon2id and encodes everything needed
// for verification into a single opaque PHC-style digest, so old digests
// keep verifying after a cost-policy bump.
type PasswordServiceImpl struct {
	cur argon2Params
}

func NewPasswordServiceArgon2id() *PasswordServiceImpl {
	return &PasswordServiceImpl{
		cur: argon2Params{
			Time:    3,
			Memory:  64 * 1024, // 64 MiB
			Threads: 1,
			KeyLen:  32,
			SaltLen: 16,
		},
	}
}

func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, p.cur.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, p.cur.Time, p.cur.Memory, p.cur.Threads, p.cur.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.cur.Memory, p.cur.Time, p.cur.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (p *PasswordServiceImpl) Verify(password, digest string) bool {
	params, salt, want, err := decodeDigest(digest)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

func decodeDigest(digest string) (argon2Params, []byte, []byte, error) {
	var (
		params  argon2Params
		version int
		saltB64 string
		hashB64 string
	)
	n, err := fmt.Sscanf(digest, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		&version, &params.Memory, &params.Time, &params.Threads, &saltB64)
	if err != nil || n != 5 {
		return params, nil, nil, fmt.Errorf("malformed digest")
	}
	// Sscanf's %s stops at whitespace, not '$'; split the trailing section.
	if i := lastDollar(saltB64); i >= 0 {
		hashB64 = saltB64[i+1:]
		saltB64 = saltB64[:i]
	} else {
		return params, nil, nil, fmt.Errorf("malformed digest")
	}
	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return params, nil, nil, err
	}
	hash, err := base64.RawStdEncoding.DecodeString(hashB64)
	if err != nil {
		return params, nil, nil, err
	}
	return params, salt, hash, nil
}

func lastDollar(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '$' {
			return i
		}
	}
	return -1
}
