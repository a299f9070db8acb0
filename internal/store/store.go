package store

import (
	"context"
	"errors"
	"time"

	"leoniportal/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
)

// Store is the persistence contract of the portal. Two implementations
// exist: Gorm (Postgres) and Memory, selected at startup by a connectivity
// probe. All mutable state lives behind this interface; handlers and
// services stay stateless per request.
type Store interface {
	Users() UserStore
	DocumentRequests() DocumentRequestStore
	PasswordResets() PasswordResetStore

	// Ping reports backend connectivity; Kind names the implementation
	// for the health endpoint ("postgres" or "memory").
	Ping(ctx context.Context) error
	Kind() string
}

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByParentalEmail(ctx context.Context, email string) (*domain.User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Count(ctx context.Context) (int64, error)
}

type DocumentRequestStore interface {
	Create(ctx context.Context, d *domain.DocumentRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DocumentRequest, error)
	Update(ctx context.Context, d *domain.DocumentRequest) error

	// UpgradeLegacyStatuses rewrites rows whose status is still stored as
	// a bare string into the {current, progress} shape. Run once, offline,
	// by cmd/backfill; the read path only tolerates the legacy shape.
	UpgradeLegacyStatuses(ctx context.Context) (int64, error)
}

type PasswordResetStore interface {
	Create(ctx context.Context, t *domain.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)
	DeleteByToken(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
