package service

import (
	"fmt"
	"time"

	"github.com/taxepay/internal/constants"
	"github.com/taxepay/internal/models"

	"github.com/google/uuid"
)

// SendReceiptInput receipt dispatch request
type SendReceiptInput struct {
	PaymentID uint
	ActorID   uint
	ClientIP  string
}

// SendReceipt marks a paid payment as receipted and schedules delivery
func (s *PaymentService) SendReceipt(input SendReceiptInput) (*models.Payment, error) {
	if input.PaymentID == 0 {
		return nil, ErrPaymentInvalid
	}
	log := paymentLogger("payment_id", input.PaymentID, "actor_id", input.ActorID)

	payment, err := s.paymentRepo.GetByID(input.PaymentID)
	if err != nil {
		log.Errorw("receipt_payment_fetch_failed", "error", err)
		return nil, ErrPaymentUpdateFailed
	}
	if payment == nil {
		log.Warnw("receipt_payment_not_found")
		return nil, ErrPaymentNotFound
	}
	if payment.Status != constants.PaymentStatusPaid {
		log.Warnw("receipt_payment_not_paid", "current_status", payment.Status)
		return nil, ErrPaymentNotPaid
	}

	now := time.Now()
	payment.ReceiptSentAt = &now
	payment.UpdatedAt = now
	if err := s.paymentRepo.Update(payment); err != nil {
		log.Errorw("receipt_stamp_failed", "error", err)
		return nil, ErrReceiptSendFailed
	}

	if s.queueClient != nil && s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueReceiptIssue(payment.ID); err != nil {
			log.Warnw("receipt_enqueue_failed", "error", err)
		}
	} else {
		s.IssueReceipt(payment.ID)
	}

	s.recordAudit(&models.AuditLog{
		ActorID:    fmt.Sprintf("%d", input.ActorID),
		ActorType:  constants.AuditActorTypeUser,
		Source:     constants.AuditSourceAPI,
		Action:     constants.AuditActionPaymentReceiptSent,
		Resource:   "payment",
		ResourceID: payment.ID,
		After:      paymentAuditSnapshot(payment),
		ClientIP:   input.ClientIP,
	}, log)

	log.Infow("payment_receipt_sent")
	return payment, nil
}

// IssueReceipt renders and records the receipt for a paid payment.
// Runs from the worker, best effort.
func (s *PaymentService) IssueReceipt(paymentID uint) {
	log := paymentLogger("payment_id", paymentID)

	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil || payment == nil {
		log.Warnw("receipt_issue_payment_missing", "error", err)
		return
	}
	if payment.Status != constants.PaymentStatusPaid {
		log.Warnw("receipt_issue_payment_not_paid", "current_status", payment.Status)
		return
	}
	request, err := s.requestRepo.GetByID(payment.PaymentRequestID)
	if err != nil || request == nil {
		log.Warnw("receipt_issue_request_missing", "error", err)
		return
	}

	receiptNumber := fmt.Sprintf("RC-%s", uuid.NewString())
	now := time.Now()
	if request.NotifiedAt == nil {
		request.NotifiedAt = &now
		request.UpdatedAt = now
		if err := s.requestRepo.Update(request); err != nil {
			log.Warnw("receipt_issue_request_stamp_failed", "error", err)
		}
	}

	log.Infow("payment_receipt_issued",
		"receipt_number", receiptNumber,
		"request_number", request.RequestNumber,
		"operator_name", request.OperatorName,
		"amount", payment.Amount.String(),
		"currency", payment.Currency,
		"issuer", s.cfg.Receipt.IssuerName,
	)
}
