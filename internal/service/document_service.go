package service

import (
	"context"

	"leoniportal/internal/domain"
	"leoniportal/internal/dto"
)

type DocumentService interface {
	Submit(ctx context.Context, ownerID domain.UserID, r dto.DocumentCreateRequest) (*dto.DocumentRequestView, error)
	Transition(ctx context.Context, callerID domain.UserID, r dto.DocumentStatusUpdateRequest) (*dto.DocumentRequestView, error)
	ListForOwner(ctx context.Context, ownerID domain.UserID) ([]dto.DocumentRequestView, error)
}
