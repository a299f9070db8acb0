package store

import (
	"context"
	"encoding/json"
	"time"

	"leoniportal/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormDocumentStore struct{ db *gorm.DB }

func (d *gormDocumentStore) Create(ctx context.Context, req *domain.DocumentRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	return translate(d.db.WithContext(ctx).Create(req).Error)
}

func (d *gormDocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentRequest, error) {
	var req domain.DocumentRequest
	if err := d.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (d *gormDocumentStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DocumentRequest, error) {
	var reqs []domain.DocumentRequest
	if err := d.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&reqs).Error; err != nil {
		return nil, translate(err)
	}
	return reqs, nil
}

func (d *gormDocumentStore) Update(ctx context.Context, req *domain.DocumentRequest) error {
	return translate(d.db.WithContext(ctx).Save(req).Error)
}

type legacyStatusRow struct {
	ID        uuid.UUID
	Status    string
	UpdatedAt time.Time
}

// UpgradeLegacyStatuses rewrites bare-string statuses into the checklist
// shape, replaying completed steps up to the recorded value and keeping the
// row's updated_at as the replayed completion time.
func (d *gormDocumentStore) UpgradeLegacyStatuses(ctx context.Context) (int64, error) {
	var rows []legacyStatusRow
	err := d.db.WithContext(ctx).
		Table("document_requests").
		Select("id", "status #>> '{}' AS status", "updated_at").
		Where("jsonb_typeof(status) = 'string'").
		Scan(&rows).Error
	if err != nil {
		return 0, translate(err)
	}

	var upgraded int64
	for _, row := range rows {
		st := domain.FromLegacy(domain.DocumentStatus(row.Status), row.UpdatedAt)
		encoded, err := json.Marshal(st)
		if err != nil {
			return upgraded, err
		}
		res := d.db.WithContext(ctx).
			Table("document_requests").
			Where("id = ? AND jsonb_typeof(status) = 'string'", row.ID).
			Update("status", string(encoded))
		if res.Error != nil {
			return upgraded, translate(res.Error)
		}
		upgraded += res.RowsAffected
	}
	return upgraded, nil
}
