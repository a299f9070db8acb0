package service

import (
	"context"

	"leoniportal/internal/domain"
	"leoniportal/internal/dto"
)

type ProfileService interface {
	Me(ctx context.Context, userID domain.UserID) (*dto.UserView, error)
	GetUser(ctx context.Context, userID domain.UserID) (*dto.UserView, error)
	ListUsers(ctx context.Context) ([]dto.UserView, error)
	UpdateProfile(ctx context.Context, userID domain.UserID, r dto.UpdateProfileRequest) (*dto.UserView, error)
	UploadProfilePicture(ctx context.Context, userID domain.UserID, imageData string) error
}
