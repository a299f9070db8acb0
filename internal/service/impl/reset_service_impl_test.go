package impl

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"leoniportal/internal/domain"
	"leoniportal/internal/store"
)

func newResetService(st store.Store) (*ResetServiceImpl, *stubMailService) {
	mail := &stubMailService{}
	svc := NewResetServiceImpl(st, &stubPasswordService{}, mail, "https://portal.example.com/reset")
	return svc, mail
}

func seedAccount(t *testing.T, st store.Store, email string) *domain.User {
	t.Helper()
	user := seedUser(t, st, email)
	user.PasswordDigest = "digest:old-password"
	if err := st.Users().Update(context.Background(), user); err != nil {
		t.Fatalf("seed digest: %v", err)
	}
	return user
}

func TestRequestResetMintsTokenAndMailsLink(t *testing.T) {
	st := store.NewMemory()
	seedAccount(t, st, "amira@example.com")
	svc, mail := newResetService(st)
	ctx := context.Background()

	if err := svc.RequestReset(ctx, " Amira@Example.com "); err != nil {
		t.Fatalf("request reset returned error: %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(mail.sent))
	}
	if mail.sent[0].To != "amira@example.com" {
		t.Fatalf("mail went to %q", mail.sent[0].To)
	}
	if !strings.Contains(mail.sent[0].Body, "https://portal.example.com/reset?token=") {
		t.Fatalf("mail body missing reset link: %q", mail.sent[0].Body)
	}
}

func TestRequestResetIsSilentForUnknownEmail(t *testing.T) {
	svc, mail := newResetService(store.NewMemory())

	if err := svc.RequestReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("unknown email must not surface an error, got %v", err)
	}
	if len(mail.sent) != 0 {
		t.Fatalf("no mail should be sent for unknown accounts, got %d", len(mail.sent))
	}
}

func TestRequestResetRejectsMalformedEmail(t *testing.T) {
	svc, _ := newResetService(store.NewMemory())
	if err := svc.RequestReset(context.Background(), "not an email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestRequestResetRetiresEarlierTokens(t *testing.T) {
	st := store.NewMemory()
	seedAccount(t, st, "amira@example.com")
	svc, mail := newResetService(st)
	ctx := context.Background()

	if err := svc.RequestReset(ctx, "amira@example.com"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if err := svc.RequestReset(ctx, "amira@example.com"); err != nil {
		t.Fatalf("second request: %v", err)
	}
	if len(mail.sent) != 2 {
		t.Fatalf("expected two mails, got %d", len(mail.sent))
	}

	first := tokenFromBody(t, mail.sent[0].Body)
	second := tokenFromBody(t, mail.sent[1].Body)
	if first == second {
		t.Fatalf("expected a fresh token per request")
	}

	// Only the latest token is redeemable.
	if err := svc.ConsumeReset(ctx, first, "new-password"); !errors.Is(err, domain.ErrTokenInvalidOrExpired) {
		t.Fatalf("stale token should be rejected, got %v", err)
	}
	if err := svc.ConsumeReset(ctx, second, "new-password"); err != nil {
		t.Fatalf("latest token should redeem: %v", err)
	}
}

func TestConsumeResetUpdatesPasswordOnce(t *testing.T) {
	st := store.NewMemory()
	user := seedAccount(t, st, "amira@example.com")
	svc, mail := newResetService(st)
	ctx := context.Background()

	if err := svc.RequestReset(ctx, "amira@example.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	token := tokenFromBody(t, mail.sent[0].Body)

	if err := svc.ConsumeReset(ctx, token, "brand-new-password"); err != nil {
		t.Fatalf("consume returned error: %v", err)
	}

	stored, err := st.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("lookup user: %v", err)
	}
	if stored.PasswordDigest != "digest:brand-new-password" {
		t.Fatalf("password digest not updated: %q", stored.PasswordDigest)
	}

	// Second redemption of the same token fails.
	if err := svc.ConsumeReset(ctx, token, "another-password"); !errors.Is(err, domain.ErrTokenInvalidOrExpired) {
		t.Fatalf("expected single-use token, got %v", err)
	}
}

func TestConsumeResetRejectsExpiredToken(t *testing.T) {
	st := store.NewMemory()
	seedAccount(t, st, "amira@example.com")
	svc, mail := newResetService(st)
	ctx := context.Background()

	minted := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return minted }
	if err := svc.RequestReset(ctx, "amira@example.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	token := tokenFromBody(t, mail.sent[0].Body)

	svc.now = func() time.Time { return minted.Add(domain.ResetTokenTTL + time.Minute) }
	if err := svc.ConsumeReset(ctx, token, "new-password"); !errors.Is(err, domain.ErrTokenInvalidOrExpired) {
		t.Fatalf("expected ErrTokenInvalidOrExpired, got %v", err)
	}

	// The expired row is gone, not just rejected.
	if _, err := st.PasswordResets().GetByToken(ctx, token); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expired token should be deleted, got %v", err)
	}
}

func TestConsumeResetValidatesInput(t *testing.T) {
	svc, _ := newResetService(store.NewMemory())
	ctx := context.Background()

	if err := svc.ConsumeReset(ctx, "", "new-password"); !errors.Is(err, domain.ErrTokenInvalidOrExpired) {
		t.Fatalf("empty token: expected ErrTokenInvalidOrExpired, got %v", err)
	}
	if err := svc.ConsumeReset(ctx, "some-token", "abc"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("short password: expected ErrPasswordTooShort, got %v", err)
	}
	if err := svc.ConsumeReset(ctx, "unknown-token", "new-password"); !errors.Is(err, domain.ErrTokenInvalidOrExpired) {
		t.Fatalf("unknown token: expected ErrTokenInvalidOrExpired, got %v", err)
	}
}

func tokenFromBody(t *testing.T, body string) string {
	t.Helper()
	_, rest, ok := strings.Cut(body, "?token=")
	if !ok {
		t.Fatalf("no token in mail body: %q", body)
	}
	token, _, _ := strings.Cut(rest, "\n")
	return strings.TrimSpace(token)
}
