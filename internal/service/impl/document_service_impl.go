package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"leoniportal/internal/domain"
	"leoniportal/internal/dto"
	"leoniportal/internal/observability/metrics"
	"leoniportal/internal/store"

	"github.com/google/uuid"
)

type DocumentServiceImpl struct {
	Store store.Store

	// EnforceOrder rejects transitions that skip ahead or move backward in
	// the fixed step order. Off by default: the deployed portal accepted
	// any target state and the clients rely on that.
	EnforceOrder bool

	now func() time.Time
}

func NewDocumentServiceImpl(st store.Store, enforceOrder bool) *DocumentServiceImpl {
	return &DocumentServiceImpl{Store: st, EnforceOrder: enforceOrder, now: time.Now}
}

func (d *DocumentServiceImpl) Submit(ctx context.Context, ownerID domain.UserID, r dto.DocumentCreateRequest) (*dto.DocumentRequestView, error) {
	docType := strings.TrimSpace(r.DocumentType)
	if docType == "" {
		return nil, ErrMissingFields
	}

	if _, err := d.Store.Users().GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup owner: %w", err)
	}

	now := d.now().UTC()
	req := &domain.DocumentRequest{
		UserID:       ownerID,
		DocumentType: docType,
		Description:  strings.TrimSpace(r.Description),
		Status:       domain.NewStatus(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := d.Store.DocumentRequests().Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create document request: %w", err)
	}

	slog.Info("document request submitted", "document_id", req.ID, "user_id", ownerID, "type", docType)
	view := viewDocument(req)
	return &view, nil
}

func (d *DocumentServiceImpl) Transition(ctx context.Context, callerID domain.UserID, r dto.DocumentStatusUpdateRequest) (*dto.DocumentRequestView, error) {
	next := domain.DocumentStatus(strings.TrimSpace(r.NewStatus))
	result := "failure"
	defer func() { metrics.DocumentTransitionsTotal.WithLabelValues(string(next), result).Inc() }()

	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	docID, err := uuid.Parse(strings.TrimSpace(r.DocumentID))
	if err != nil {
		return nil, ErrMalformedDocument
	}

	docs := d.Store.DocumentRequests()
	req, err := docs.GetByID(ctx, docID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup document request: %w", err)
	}
	if req.UserID != callerID {
		return nil, domain.ErrNotOwner
	}

	if !orderedTransition(req.Status.Current, next) {
		if d.EnforceOrder {
			return nil, domain.ErrInvalidStatus
		}
		slog.Warn("out-of-order status transition accepted",
			"document_id", docID, "from", req.Status.Current, "to", next)
	}

	now := d.now().UTC()
	if err := req.Status.Apply(next, now); err != nil {
		return nil, err
	}
	req.UpdatedAt = now
	if err := docs.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("store document request: %w", err)
	}

	slog.Info("document status updated", "document_id", docID, "status", next)
	result = "success"
	view := viewDocument(req)
	return &view, nil
}

func (d *DocumentServiceImpl) ListForOwner(ctx context.Context, ownerID domain.UserID) ([]dto.DocumentRequestView, error) {
	reqs, err := d.Store.DocumentRequests().ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list document requests: %w", err)
	}
	views := make([]dto.DocumentRequestView, len(reqs))
	for i := range reqs {
		views[i] = viewDocument(&reqs[i])
	}
	return views, nil
}

// orderedTransition reports whether from→to follows the conceptual flow
// pending → in_progress → approved|rejected. Repeating the current step is
// always in order (transitions are idempotent per step).
func orderedTransition(from, to domain.DocumentStatus) bool {
	if to == from {
		return true
	}
	switch from {
	case domain.StatusPending:
		return to == domain.StatusInProgress
	case domain.StatusInProgress:
		return to == domain.StatusApproved || to == domain.StatusRejected
	default:
		return false
	}
}

func viewDocument(req *domain.DocumentRequest) dto.DocumentRequestView {
	steps := make([]dto.ProgressStepView, len(req.Status.Progress))
	for i, step := range req.Status.Progress {
		v := dto.ProgressStepView{Step: string(step.Step), Completed: step.Completed}
		if step.CompletedAt != nil && !step.CompletedAt.IsZero() {
			v.CompletedAt = step.CompletedAt.UTC().Format(time.RFC3339)
		}
		steps[i] = v
	}
	return dto.DocumentRequestView{
		ID:           req.ID.String(),
		UserID:       req.UserID.String(),
		DocumentType: req.DocumentType,
		Description:  req.Description,
		Status:       dto.StatusView{Current: string(req.Status.Current), Progress: steps},
		CreatedAt:    req.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    req.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
