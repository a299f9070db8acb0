package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusInProgress DocumentStatus = "in_progress"
	StatusApproved   DocumentStatus = "approved"
	StatusRejected   DocumentStatus = "rejected"
)

// StatusOrder is the fixed step order of the progress checklist. The
// checklist always holds exactly these four steps, in this order.
var StatusOrder = [4]DocumentStatus{StatusPending, StatusInProgress, StatusApproved, StatusRejected}

func (s DocumentStatus) Valid() bool {
	for _, known := range StatusOrder {
		if s == known {
			return true
		}
	}
	return false
}

// Index returns the position of s in the fixed step order, or -1.
func (s DocumentStatus) Index() int {
	for i, known := range StatusOrder {
		if s == known {
			return i
		}
	}
	return -1
}

type ProgressStep struct {
	Step        DocumentStatus `json:"step"`
	Completed   bool           `json:"completed"`
	CompletedAt *time.Time     `json:"completedAt"`
}

// Status is the embedded progress state machine of a document request. It
// is persisted as a single JSONB value; legacy rows hold a bare string
// instead of the object shape, which Scan tolerates (see FromLegacy).
type Status struct {
	Current  DocumentStatus `json:"current"`
	Progress []ProgressStep `json:"progress"`
}

// NewStatus returns the pristine state of a freshly submitted request:
// current is pending and no step is marked completed yet.
func NewStatus() Status {
	steps := make([]ProgressStep, len(StatusOrder))
	for i, s := range StatusOrder {
		steps[i] = ProgressStep{Step: s}
	}
	return Status{Current: StatusPending, Progress: steps}
}

// Apply moves the state machine to next at time now: current becomes next
// and only the matching progress step is marked completed. Entries for
// other steps keep whatever completion state they had, so repeated or
// out-of-order transitions are idempotent per step.
func (st *Status) Apply(next DocumentStatus, now time.Time) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	st.normalize()
	st.Current = next
	for i := range st.Progress {
		if st.Progress[i].Step == next {
			at := now
			st.Progress[i].Completed = true
			st.Progress[i].CompletedAt = &at
		}
	}
	return nil
}

// FromLegacy upgrades a bare-string status (pre-checklist format) into the
// object shape, replaying every step up to and including the recorded one.
func FromLegacy(current DocumentStatus, at time.Time) Status {
	st := NewStatus()
	idx := current.Index()
	if idx < 0 {
		return st
	}
	st.Current = current
	for i := 0; i <= idx; i++ {
		ts := at
		st.Progress[i].Completed = true
		st.Progress[i].CompletedAt = &ts
	}
	return st
}

// normalize rebuilds a malformed progress slice so Apply always operates on
// the fixed four-step checklist.
func (st *Status) normalize() {
	if len(st.Progress) == len(StatusOrder) {
		return
	}
	fixed := NewStatus()
	for _, have := range st.Progress {
		for i := range fixed.Progress {
			if fixed.Progress[i].Step == have.Step {
				fixed.Progress[i].Completed = have.Completed
				fixed.Progress[i].CompletedAt = have.CompletedAt
			}
		}
	}
	st.Progress = fixed.Progress
	if st.Current == "" {
		st.Current = fixed.Current
	}
}

func (st Status) Value() (driver.Value, error) {
	b, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (st *Status) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*st = NewStatus()
		return nil
	default:
		return fmt.Errorf("unsupported status column type %T", src)
	}
	return st.UnmarshalJSON(raw)
}

// UnmarshalJSON accepts both the current object shape and the legacy bare
// string shape. Legacy values are upgraded in place with a zero timestamp;
// the backfill job persists the upgrade so reads stop paying for it.
func (st *Status) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		*st = FromLegacy(DocumentStatus(legacy), time.Time{})
		return nil
	}
	type statusAlias Status
	var obj statusAlias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*st = Status(obj)
	st.normalize()
	return nil
}

type DocumentRequest struct {
	ID           DocumentID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       UserID     `gorm:"type:uuid;index:ix_document_requests_user" json:"userId"`
	DocumentType string     `gorm:"type:text;not null" json:"documentType"`
	Description  string     `gorm:"type:text" json:"description"`
	Status       Status     `gorm:"type:jsonb" json:"status"`
	CreatedAt    time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updatedAt"`
}

func (DocumentRequest) TableName() string { return "document_requests" }
