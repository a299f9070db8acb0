package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Gorm struct {
	DB *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm { return &Gorm{DB: db} }

func (s *Gorm) Users() UserStore                       { return &gormUserStore{db: s.DB} }
func (s *Gorm) DocumentRequests() DocumentRequestStore { return &gormDocumentStore{db: s.DB} }
func (s *Gorm) PasswordResets() PasswordResetStore     { return &gormResetStore{db: s.DB} }

func (s *Gorm) Kind() string { return "postgres" }

func (s *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate maps gorm's sentinel errors onto the store's own so callers
// never import gorm.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}
