package impl

import (
	"context"
	"fmt"

	"leoniportal/internal/domain"
	"leoniportal/internal/service"
)

// stubPasswordService records calls and hashes with a reversible marker so
// tests can assert on stored digests without paying for argon2.
type stubPasswordService struct {
	hashErr   error
	hashCalls []string
}

func (s *stubPasswordService) Hash(password string) (string, error) {
	s.hashCalls = append(s.hashCalls, password)
	if s.hashErr != nil {
		return "", s.hashErr
	}
	return "digest:" + password, nil
}

func (s *stubPasswordService) Verify(password, digest string) bool {
	return digest == "digest:"+password
}

type stubTokenService struct {
	issueErr   error
	issueCalls []domain.UserID
}

func (s *stubTokenService) Issue(user *domain.User) (string, error) {
	s.issueCalls = append(s.issueCalls, user.ID)
	if s.issueErr != nil {
		return "", s.issueErr
	}
	return fmt.Sprintf("token-for-%s", user.ID), nil
}

func (s *stubTokenService) Verify(token string) (*service.Claims, error) {
	return nil, domain.ErrInvalidCredentials
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type stubMailService struct {
	sendErr error
	sent    []sentMail
}

func (s *stubMailService) Send(ctx context.Context, to, subject, body string) error {
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: body})
	return s.sendErr
}
