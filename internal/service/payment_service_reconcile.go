package service

import (
	"context"
	"errors"
	"time"

	"github.com/taxepay/internal/constants"
	"github.com/taxepay/internal/models"
	"github.com/taxepay/internal/payment/mypayga"
)

// ReconcilePendingPayments queries the gateway for payments stuck pending
// past the configured age and applies the resulting terminal status. It also
// flags terminal payments whose request status disagrees.
func (s *PaymentService) ReconcilePendingPayments(ctx context.Context) {
	ageMinutes := s.cfg.Reconcile.PendingAgeMinutes
	if ageMinutes <= 0 {
		ageMinutes = 15
	}
	cutoff := time.Now().Add(-time.Duration(ageMinutes) * time.Minute)

	stale, err := s.paymentRepo.ListStalePending(cutoff, s.cfg.Reconcile.BatchSize)
	if err != nil {
		paymentLogger().Errorw("reconcile_list_failed", "error", err)
		return
	}
	if len(stale) == 0 {
		return
	}
	paymentLogger().Infow("reconcile_batch_started", "count", len(stale))

	for _, payment := range stale {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.reconcilePayment(ctx, payment)
	}
}

func (s *PaymentService) reconcilePayment(ctx context.Context, payment models.Payment) {
	log := paymentLogger(
		"payment_id", payment.ID,
		"payment_token", payment.ProviderToken,
	)

	result, err := mypayga.CheckStatus(ctx, s.gatewayConfig(), payment.ProviderToken)
	if err != nil {
		log.Warnw("reconcile_status_check_failed", "error", err)
		return
	}

	status := statusFromOrderStatus(result.OrderStatus)
	if !isPaymentTransitionAllowed(payment.Status, status) {
		log.Infow("reconcile_no_transition", "gateway_order_status", result.OrderStatus)
		return
	}

	previousStatus := payment.Status
	now := time.Now()
	input := PaymentCallbackInput{
		Data: mypayga.CallbackData{
			OrderStatus:   result.OrderStatus,
			UniqueID:      result.UniqueID,
			Amount:        result.Amount,
			PaymentToken:  result.PaymentToken,
			PaymentMethod: result.PaymentMethod,
			Message:       result.Message,
		},
		Payload: models.JSON(result.Raw),
	}
	updated, err := s.applyPaymentUpdate(&payment, previousStatus, status, input, now)
	if errors.Is(err, errPaymentTransitionRaced) {
		log.Infow("reconcile_transition_already_applied")
		return
	}
	if err != nil {
		log.Errorw("reconcile_apply_failed", "error", err)
		return
	}

	s.recordAudit(&models.AuditLog{
		ActorType:  constants.AuditActorTypeSystem,
		Source:     constants.AuditSourceReconciler,
		Action:     reconcileAuditAction(updated.Status),
		Resource:   "payment",
		ResourceID: updated.ID,
		Before:     models.JSON{"status": previousStatus},
		After:      paymentAuditSnapshot(updated),
	}, log)
	if updated.Status == constants.PaymentStatusPaid {
		s.scheduleReceipt(updated, log)
	}

	log.Infow("reconcile_payment_settled",
		"previous_status", previousStatus,
		"new_status", updated.Status,
	)
}

// CheckRequestDivergence flags paid payments whose request never moved
func (s *PaymentService) CheckRequestDivergence() {
	divergent, err := s.paymentRepo.ListPaidWithUnpaidRequest(s.cfg.Reconcile.BatchSize)
	if err != nil {
		paymentLogger().Errorw("reconcile_divergence_scan_failed", "error", err)
		return
	}
	for _, payment := range divergent {
		request, err := s.requestRepo.GetByID(payment.PaymentRequestID)
		if err != nil || request == nil {
			continue
		}
		paymentLogger(
			"payment_id", payment.ID,
			"request_number", request.RequestNumber,
			"payment_status", payment.Status,
			"request_status", request.Status,
		).Warnw("payment_request_divergent")
	}
}

func reconcileAuditAction(status string) string {
	if status == constants.PaymentStatusPaid {
		return constants.AuditActionPaymentPaid
	}
	return constants.AuditActionPaymentFailed
}
