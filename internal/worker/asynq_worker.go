package worker

import (
	"context"
	"encoding/json"

	"github.com/taxepay/internal/logger"
	"github.com/taxepay/internal/provider"
	"github.com/taxepay/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer async task consumer
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register registers task handlers
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskAuditAppend, c.handleAuditAppend)
	mux.HandleFunc(queue.TaskReceiptIssue, c.handleReceiptIssue)
}

func (c *Consumer) handleAuditAppend(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_audit_append_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.AuditAppendPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_audit_append_unmarshal_failed", "error", err)
		return err
	}
	if payload.Action == "" {
		logger.Debugw("worker_audit_append_skip_empty_action")
		return nil
	}
	if c.AuditService == nil {
		logger.Warnw("worker_audit_append_skip_service_nil", "action", payload.Action)
		return nil
	}
	return c.AuditService.Append(payload)
}

func (c *Consumer) handleReceiptIssue(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_receipt_issue_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReceiptIssuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_receipt_issue_unmarshal_failed", "error", err)
		return err
	}
	if payload.PaymentID == 0 {
		logger.Debugw("worker_receipt_issue_skip_invalid_payload", "payment_id", payload.PaymentID)
		return nil
	}
	if c.PaymentService == nil {
		logger.Warnw("worker_receipt_issue_skip_service_nil", "payment_id", payload.PaymentID)
		return nil
	}
	c.PaymentService.IssueReceipt(payload.PaymentID)
	return nil
}
