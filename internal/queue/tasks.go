package queue

import (
	"encoding/json"
	"time"

	"github.com/taxepay/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskAuditAppend appends one audit trail entry
	TaskAuditAppend = constants.TaskAuditAppend
	// TaskReceiptIssue issues the receipt for a paid payment
	TaskReceiptIssue = constants.TaskReceiptIssue
)

// AuditAppendPayload audit append task payload
type AuditAppendPayload struct {
	ActorID    string                 `json:"actor_id"`
	ActorType  string                 `json:"actor_type"`
	Source     string                 `json:"source"`
	Action     string                 `json:"action"`
	Resource   string                 `json:"resource"`
	ResourceID uint                   `json:"resource_id"`
	Before     map[string]interface{} `json:"before"`
	After      map[string]interface{} `json:"after"`
	ClientIP   string                 `json:"client_ip"`
	RecordedAt time.Time              `json:"recorded_at"`
}

// ReceiptIssuePayload receipt issue task payload
type ReceiptIssuePayload struct {
	PaymentID uint `json:"payment_id"`
}

// NewAuditAppendTask creates the audit append task
func NewAuditAppendTask(payload AuditAppendPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditAppend, body), nil
}

// NewReceiptIssueTask creates the receipt issue task
func NewReceiptIssueTask(payload ReceiptIssuePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReceiptIssue, body), nil
}
