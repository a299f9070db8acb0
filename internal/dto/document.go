package dto

type DocumentCreateRequest struct {
	DocumentType string `json:"documentType"`
	Description  string `json:"description,omitempty"`
}

type DocumentStatusUpdateRequest struct {
	DocumentID string `json:"documentId"`
	NewStatus  string `json:"newStatus"`
}

type ProgressStepView struct {
	Step        string `json:"step"`
	Completed   bool   `json:"completed"`
	CompletedAt string `json:"completedAt,omitempty"`
}

type StatusView struct {
	Current  string             `json:"current"`
	Progress []ProgressStepView `json:"progress"`
}

// DocumentRequestView renders ids and timestamps as strings, matching what
// the mobile client expects.
type DocumentRequestView struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	DocumentType string     `json:"documentType"`
	Description  string     `json:"description,omitempty"`
	Status       StatusView `json:"status"`
	CreatedAt    string     `json:"createdAt"`
	UpdatedAt    string     `json:"updatedAt"`
}
