package store

import (
	"context"

	"leoniportal/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormUserStore struct{ db *gorm.DB }

func (u *gormUserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	return translate(u.db.WithContext(ctx).Create(usr).Error)
}

func (u *gormUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *gormUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *gormUserStore) GetByParentalEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "parental_email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *gormUserStore) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "employee_id = ?", employeeID).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *gormUserStore) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := u.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (u *gormUserStore) Update(ctx context.Context, usr *domain.User) error {
	return translate(u.db.WithContext(ctx).Save(usr).Error)
}

func (u *gormUserStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := u.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return 0, translate(err)
	}
	return total, nil
}
