package service

import (
	"errors"
	"strings"
	"time"

	"github.com/taxepay/internal/constants"
	"github.com/taxepay/internal/models"
	"github.com/taxepay/internal/payment/mypayga"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// errPaymentTransitionRaced signals that another delivery committed the
// transition first. HandleCallback absorbs it, callers never see it.
var errPaymentTransitionRaced = errors.New("payment transition raced")

// PaymentCallbackInput verified gateway callback
type PaymentCallbackInput struct {
	Data     mypayga.CallbackData
	Payload  models.JSON
	ClientIP string
}

// VerifyCallbackSignature checks the callback HMAC before any read or write
func (s *PaymentService) VerifyCallbackSignature(data mypayga.CallbackData) error {
	if err := mypayga.VerifyCallback(s.gatewayConfig(), data); err != nil {
		paymentLogger(
			"payment_token", strings.TrimSpace(data.PaymentToken),
			"unique_id", strings.TrimSpace(data.UniqueID),
		).Warnw("payment_callback_signature_invalid", "error", err)
		return ErrSignatureInvalid
	}
	return nil
}

// HandleCallback applies a verified gateway callback to the payment and its request
func (s *PaymentService) HandleCallback(input PaymentCallbackInput) (*models.Payment, error) {
	token := strings.TrimSpace(input.Data.PaymentToken)
	if token == "" {
		return nil, ErrPaymentInvalid
	}
	status := statusFromOrderStatus(input.Data.OrderStatus)

	log := paymentLogger(
		"payment_token", token,
		"callback_order_status", strings.TrimSpace(input.Data.OrderStatus),
		"callback_unique_id", strings.TrimSpace(input.Data.UniqueID),
		"callback_amount", strings.TrimSpace(input.Data.Amount),
		"target_status", status,
	)
	log.Infow("payment_callback_received")

	payment, err := s.paymentRepo.GetByProviderToken(token)
	if err != nil {
		log.Errorw("payment_callback_payment_fetch_failed", "error", err)
		return nil, ErrPaymentUpdateFailed
	}
	if payment == nil {
		log.Warnw("payment_callback_payment_not_found")
		return nil, ErrPaymentNotFound
	}

	if amount := strings.TrimSpace(input.Data.Amount); amount != "" {
		callbackAmount, err := decimal.NewFromString(amount)
		if err != nil || callbackAmount.Cmp(payment.Amount.Decimal) != 0 {
			log.Warnw("payment_callback_amount_mismatch",
				"stored_amount", payment.Amount.String(),
			)
			return nil, ErrPaymentAmountMismatch
		}
	}

	// Terminal payments absorb replays: refresh provider metadata only,
	// never re-fire the transition, audit entry or receipt.
	if isPaymentStatusTerminal(payment.Status) {
		log.Infow("payment_callback_idempotent_terminal", "current_status", payment.Status)
		return s.updateCallbackMeta(payment, input)
	}

	if !isPaymentTransitionAllowed(payment.Status, status) {
		log.Warnw("payment_callback_transition_rejected", "current_status", payment.Status)
		return nil, ErrPaymentInvalid
	}

	previousStatus := payment.Status
	now := time.Now()
	updated, err := s.applyPaymentUpdate(payment, previousStatus, status, input, now)
	if errors.Is(err, errPaymentTransitionRaced) {
		log.Infow("payment_callback_duplicate_delivery", "observed_status", previousStatus)
		current, ferr := s.paymentRepo.GetByProviderToken(token)
		if ferr != nil || current == nil {
			return nil, ErrPaymentUpdateFailed
		}
		return s.updateCallbackMeta(current, input)
	}
	if err != nil {
		log.Errorw("payment_callback_apply_failed", "current_status", previousStatus, "error", err)
		return nil, err
	}

	s.recordCallbackAudit(updated, previousStatus, input, log)
	if updated.Status == constants.PaymentStatusPaid {
		s.scheduleReceipt(updated, log)
	}

	log.Infow("payment_callback_processed",
		"payment_id", updated.ID,
		"previous_status", previousStatus,
		"new_status", updated.Status,
	)
	return updated, nil
}

// applyPaymentUpdate transitions the payment and its request in one transaction,
// payment row first. The payment write is guarded on fromStatus so only one of
// two racing callback deliveries commits the transition.
func (s *PaymentService) applyPaymentUpdate(payment *models.Payment, fromStatus, status string, input PaymentCallbackInput, now time.Time) (*models.Payment, error) {
	payment.Status = status
	payment.CallbackAt = &now
	payment.UpdatedAt = now
	if status == constants.PaymentStatusPaid {
		payment.PaidAt = &now
	}
	if txnID := strings.TrimSpace(input.Data.TransactionID); txnID != "" {
		payment.ProviderTxnID = txnID
	}
	if msg := strings.TrimSpace(input.Data.Message); msg != "" {
		payment.ProviderMessage = msg
	}
	if input.Payload != nil {
		payment.ProviderPayload = input.Payload
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		applied, err := s.paymentRepo.WithTx(tx).UpdateIfStatus(payment, fromStatus)
		if err != nil {
			return ErrPaymentUpdateFailed
		}
		if !applied {
			return errPaymentTransitionRaced
		}

		request, err := s.requestRepo.WithTx(tx).GetByID(payment.PaymentRequestID)
		if err != nil {
			return ErrPaymentUpdateFailed
		}
		if request == nil {
			return ErrPaymentRequestNotFound
		}

		switch status {
		case constants.PaymentStatusPaid:
			request.Status = constants.PaymentRequestStatusPaid
			request.PaidAt = &now
			request.PaymentDate = &now
		case constants.PaymentStatusFailed:
			request.Status = constants.PaymentRequestStatusFailed
		case constants.PaymentStatusCancelled:
			request.Status = constants.PaymentRequestStatusCancelled
		}
		request.UpdatedAt = now
		if err := s.requestRepo.WithTx(tx).Update(request); err != nil {
			return ErrPaymentUpdateFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// updateCallbackMeta refreshes provider fields on a replayed callback
func (s *PaymentService) updateCallbackMeta(payment *models.Payment, input PaymentCallbackInput) (*models.Payment, error) {
	updated := false
	if txnID := strings.TrimSpace(input.Data.TransactionID); txnID != "" && payment.ProviderTxnID == "" {
		payment.ProviderTxnID = txnID
		updated = true
	}
	if msg := strings.TrimSpace(input.Data.Message); msg != "" && msg != payment.ProviderMessage {
		payment.ProviderMessage = msg
		updated = true
	}
	if input.Payload != nil {
		payment.ProviderPayload = input.Payload
		updated = true
	}
	if updated {
		now := time.Now()
		payment.CallbackAt = &now
		payment.UpdatedAt = now
		if err := s.paymentRepo.Update(payment); err != nil {
			return nil, ErrPaymentUpdateFailed
		}
	}
	return payment, nil
}

func (s *PaymentService) recordCallbackAudit(payment *models.Payment, previousStatus string, input PaymentCallbackInput, log *zap.SugaredLogger) {
	action := constants.AuditActionPaymentFailed
	if payment.Status == constants.PaymentStatusPaid {
		action = constants.AuditActionPaymentPaid
	}
	s.recordAudit(&models.AuditLog{
		ActorType:  constants.AuditActorTypeSystem,
		Source:     constants.AuditSourceMypaygaCallback,
		Action:     action,
		Resource:   "payment",
		ResourceID: payment.ID,
		Before:     models.JSON{"status": previousStatus},
		After:      paymentAuditSnapshot(payment),
		ClientIP:   input.ClientIP,
	}, log)
}

func (s *PaymentService) scheduleReceipt(payment *models.Payment, log *zap.SugaredLogger) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		log.Infow("payment_receipt_enqueue_skipped", "payment_id", payment.ID)
		return
	}
	if err := s.queueClient.EnqueueReceiptIssue(payment.ID); err != nil {
		log.Warnw("payment_receipt_enqueue_failed", "payment_id", payment.ID, "error", err)
	}
}
