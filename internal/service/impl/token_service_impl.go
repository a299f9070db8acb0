package impl

import (
	"time"

	"leoniportal/internal/domain"
	"leoniportal/internal/observability/metrics"
	"leoniportal/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenConfig struct {
	Issuer     string
	TTL        time.Duration // 24h in production
	SigningKey []byte        // HS256 secret
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenServiceImpl signs session tokens with HS256. There is no refresh
// flow: after TTL the client re-authenticates.
type TokenServiceImpl struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg, now: time.Now}
}

func (t *TokenServiceImpl) Issue(user *domain.User) (string, error) {
	now := t.now().UTC()
	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.cfg.SigningKey)
	if err != nil {
		metrics.TokensIssuedTotal.WithLabelValues("failure").Inc()
		return "", err
	}
	metrics.TokensIssuedTotal.WithLabelValues("success").Inc()
	return signed, nil
}

// Verify rejects expired, malformed and forged tokens with the same error
// so the failure modes stay indistinguishable to callers.
func (t *TokenServiceImpl) Verify(tokenStr string) (*service.Claims, error) {
	claims := &sessionClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return t.now() }),
	)
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil || !tok.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	if t.cfg.Issuer != "" && claims.Issuer != t.cfg.Issuer {
		return nil, domain.ErrInvalidCredentials
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return &service.Claims{UserID: userID, Email: claims.Email}, nil
}
