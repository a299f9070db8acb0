package impl

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"leoniportal/internal/domain"
	"leoniportal/internal/observability/metrics"
	"leoniportal/internal/service"
	"leoniportal/internal/store"
)

const resetTokenBytes = 32 // 256 bits of entropy

type ResetServiceImpl struct {
	Store           store.Store
	PasswordService service.PasswordService
	Mail            service.MailService
	BaseURL         string // reset link prefix, token appended as query param
	TTL             time.Duration

	now func() time.Time
}

func NewResetServiceImpl(st store.Store, ps service.PasswordService, mailer service.MailService, baseURL string) *ResetServiceImpl {
	return &ResetServiceImpl{
		Store:           st,
		PasswordService: ps,
		Mail:            mailer,
		BaseURL:         baseURL,
		TTL:             domain.ResetTokenTTL,
		now:             time.Now,
	}
}

// RequestReset never reveals whether the email is registered. For known
// accounts it retires any earlier tokens, mints a fresh one and mails the
// link; mail failures are logged, not surfaced.
func (s *ResetServiceImpl) RequestReset(ctx context.Context, email string) error {
	result := "success"
	defer func() { metrics.PasswordResetsTotal.WithLabelValues("request", result).Inc() }()

	email = normalizeEmail(email)
	if email == "" || !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}

	_, err := s.Store.Users().GetByEmail(ctx, email)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		result = "failure"
		return fmt.Errorf("lookup user: %w", err)
	}

	resets := s.Store.PasswordResets()
	if _, err := resets.DeleteByEmail(ctx, email); err != nil {
		result = "failure"
		return fmt.Errorf("retire old tokens: %w", err)
	}

	token, err := mintResetToken()
	if err != nil {
		result = "failure"
		return fmt.Errorf("mint token: %w", err)
	}
	now := s.now().UTC()
	record := &domain.PasswordResetToken{
		Email:     email,
		Token:     token,
		ExpiresAt: now.Add(s.TTL),
		CreatedAt: now,
	}
	if err := resets.Create(ctx, record); err != nil {
		result = "failure"
		return fmt.Errorf("store token: %w", err)
	}

	link := fmt.Sprintf("%s?token=%s", s.BaseURL, token)
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Open the link below within one hour to choose a new password:\n\n%s\n\n"+
			"If you did not request this, ignore this message.", link)
	if err := s.Mail.Send(ctx, email, "Password reset", body); err != nil {
		slog.Warn("reset mail dispatch failed", "error", err)
	}
	return nil
}

// ConsumeReset redeems a token exactly once: the token row is deleted
// before the call returns, success or not past the password update.
func (s *ResetServiceImpl) ConsumeReset(ctx context.Context, token, newPassword string) error {
	result := "failure"
	defer func() { metrics.PasswordResetsTotal.WithLabelValues("consume", result).Inc() }()

	if token == "" {
		return domain.ErrTokenInvalidOrExpired
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	resets := s.Store.PasswordResets()
	record, err := resets.GetByToken(ctx, token)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrTokenInvalidOrExpired
	}
	if err != nil {
		return fmt.Errorf("lookup token: %w", err)
	}
	if record.Expired(s.now().UTC()) {
		_ = resets.DeleteByToken(ctx, token)
		return domain.ErrTokenInvalidOrExpired
	}

	users := s.Store.Users()
	user, err := users.GetByEmail(ctx, record.Email)
	if errors.Is(err, store.ErrRecordNotFound) {
		_ = resets.DeleteByToken(ctx, token)
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	digest, err := s.PasswordService.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordDigest = digest
	user.UpdatedAt = s.now().UTC()
	if err := users.Update(ctx, user); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	if err := resets.DeleteByToken(ctx, token); err != nil {
		slog.Warn("failed to delete consumed reset token", "error", err)
	}

	slog.Info("password reset consumed", "user_id", user.ID)
	result = "success"
	return nil
}

func mintResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
