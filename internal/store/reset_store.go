package store

import (
	"context"
	"time"

	"leoniportal/internal/domain"

	"gorm.io/gorm"
)

type gormResetStore struct{ db *gorm.DB }

func (r *gormResetStore) Create(ctx context.Context, t *domain.PasswordResetToken) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *gormResetStore) GetByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	var t domain.PasswordResetToken
	if err := r.db.WithContext(ctx).First(&t, "token = ?", token).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *gormResetStore) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	res := r.db.WithContext(ctx).Where("email = ?", email).Delete(&domain.PasswordResetToken{})
	return res.RowsAffected, translate(res.Error)
}

func (r *gormResetStore) DeleteByToken(ctx context.Context, token string) error {
	return translate(r.db.WithContext(ctx).Where("token = ?", token).Delete(&domain.PasswordResetToken{}).Error)
}

func (r *gormResetStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&domain.PasswordResetToken{})
	return res.RowsAffected, translate(res.Error)
}
