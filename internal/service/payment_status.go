package service

import (
	"strings"

	"github.com/taxepay/internal/constants"
	"github.com/taxepay/internal/payment/mypayga"
)

// paymentTransitions allowed status moves. A paid or failed payment is
// terminal and never re-transitions.
var paymentTransitions = map[string][]string{
	constants.PaymentStatusPending: {
		constants.PaymentStatusPaid,
		constants.PaymentStatusFailed,
		constants.PaymentStatusCancelled,
	},
}

func normalizePaymentStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

func isPaymentStatusValid(status string) bool {
	switch status {
	case constants.PaymentStatusPending,
		constants.PaymentStatusPaid,
		constants.PaymentStatusFailed,
		constants.PaymentStatusCancelled:
		return true
	}
	return false
}

func isPaymentStatusTerminal(status string) bool {
	switch status {
	case constants.PaymentStatusPaid,
		constants.PaymentStatusFailed,
		constants.PaymentStatusCancelled:
		return true
	}
	return false
}

func isPaymentTransitionAllowed(from, to string) bool {
	if from == to {
		return false
	}
	for _, allowed := range paymentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// statusFromOrderStatus maps the gateway order_status to our payment status
func statusFromOrderStatus(orderStatus string) string {
	if mypayga.IsPaid(orderStatus) {
		return constants.PaymentStatusPaid
	}
	return constants.PaymentStatusFailed
}
