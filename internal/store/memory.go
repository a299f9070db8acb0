package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"leoniportal/internal/domain"

	"github.com/google/uuid"
)

// Memory is the fallback Store used when the Postgres probe fails at
// startup. It enforces the same uniqueness constraints as the database so
// service behavior does not depend on which implementation is active.
type Memory struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*domain.User
	docs   map[uuid.UUID]*domain.DocumentRequest
	resets map[string]*domain.PasswordResetToken
}

func NewMemory() *Memory {
	return &Memory{
		users:  make(map[uuid.UUID]*domain.User),
		docs:   make(map[uuid.UUID]*domain.DocumentRequest),
		resets: make(map[string]*domain.PasswordResetToken),
	}
}

func (m *Memory) Users() UserStore                       { return &memUserStore{m: m} }
func (m *Memory) DocumentRequests() DocumentRequestStore { return &memDocumentStore{m: m} }
func (m *Memory) PasswordResets() PasswordResetStore     { return &memResetStore{m: m} }

func (m *Memory) Kind() string                   { return "memory" }
func (m *Memory) Ping(ctx context.Context) error { return ctx.Err() }

type memUserStore struct{ m *Memory }

func (s *memUserStore) Create(ctx context.Context, u *domain.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	for _, existing := range s.m.users {
		if strings.EqualFold(existing.Email, u.Email) ||
			strings.EqualFold(existing.ParentalEmail, u.ParentalEmail) ||
			existing.EmployeeID == u.EmployeeID {
			return ErrDuplicateKey
		}
	}
	cp := *u
	s.m.users[u.ID] = &cp
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *memUserStore) GetByParentalEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return strings.EqualFold(u.ParentalEmail, email) })
}

func (s *memUserStore) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return u.EmployeeID == employeeID })
}

func (s *memUserStore) find(match func(*domain.User) bool) (*domain.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (s *memUserStore) List(ctx context.Context) ([]domain.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]domain.User, 0, len(s.m.users))
	for _, u := range s.m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memUserStore) Update(ctx context.Context, u *domain.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[u.ID]; !ok {
		return ErrRecordNotFound
	}
	cp := *u
	s.m.users[u.ID] = &cp
	return nil
}

func (s *memUserStore) Count(ctx context.Context) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return int64(len(s.m.users)), nil
}

type memDocumentStore struct{ m *Memory }

func (s *memDocumentStore) Create(ctx context.Context, d *domain.DocumentRequest) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	cp := cloneDocument(d)
	s.m.docs[d.ID] = cp
	return nil
}

func (s *memDocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentRequest, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	d, ok := s.m.docs[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return cloneDocument(d), nil
}

func (s *memDocumentStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DocumentRequest, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []domain.DocumentRequest
	for _, d := range s.m.docs {
		if d.UserID == userID {
			out = append(out, *cloneDocument(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memDocumentStore) Update(ctx context.Context, d *domain.DocumentRequest) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.docs[d.ID]; !ok {
		return ErrRecordNotFound
	}
	s.m.docs[d.ID] = cloneDocument(d)
	return nil
}

// UpgradeLegacyStatuses is a no-op: the memory store never holds rows
// written by the pre-checklist deployment.
func (s *memDocumentStore) UpgradeLegacyStatuses(ctx context.Context) (int64, error) {
	return 0, nil
}

func cloneDocument(d *domain.DocumentRequest) *domain.DocumentRequest {
	cp := *d
	cp.Status.Progress = append([]domain.ProgressStep(nil), d.Status.Progress...)
	return &cp
}

type memResetStore struct{ m *Memory }

func (s *memResetStore) Create(ctx context.Context, t *domain.PasswordResetToken) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.resets[t.Token]; ok {
		return ErrDuplicateKey
	}
	cp := *t
	s.m.resets[t.Token] = &cp
	return nil
}

func (s *memResetStore) GetByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t, ok := s.m.resets[token]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memResetStore) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var removed int64
	for token, t := range s.m.resets {
		if strings.EqualFold(t.Email, email) {
			delete(s.m.resets, token)
			removed++
		}
	}
	return removed, nil
}

func (s *memResetStore) DeleteByToken(ctx context.Context, token string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.resets, token)
	return nil
}

func (s *memResetStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var removed int64
	for token, t := range s.m.resets {
		if t.Expired(now) {
			delete(s.m.resets, token)
			removed++
		}
	}
	return removed, nil
}
