package service

import (
	"testing"

	"github.com/taxepay/internal/constants"
)

func TestPaymentTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{constants.PaymentStatusPending, constants.PaymentStatusPaid, true},
		{constants.PaymentStatusPending, constants.PaymentStatusFailed, true},
		{constants.PaymentStatusPending, constants.PaymentStatusCancelled, true},
		{constants.PaymentStatusPending, constants.PaymentStatusPending, false},
		{constants.PaymentStatusPaid, constants.PaymentStatusFailed, false},
		{constants.PaymentStatusPaid, constants.PaymentStatusPending, false},
		{constants.PaymentStatusFailed, constants.PaymentStatusPaid, false},
		{constants.PaymentStatusCancelled, constants.PaymentStatusPaid, false},
	}
	for _, tc := range cases {
		if got := isPaymentTransitionAllowed(tc.from, tc.to); got != tc.allowed {
			t.Fatalf("transition %s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	if isPaymentStatusTerminal(constants.PaymentStatusPending) {
		t.Fatalf("pending should not be terminal")
	}
	for _, status := range []string{
		constants.PaymentStatusPaid,
		constants.PaymentStatusFailed,
		constants.PaymentStatusCancelled,
	} {
		if !isPaymentStatusTerminal(status) {
			t.Fatalf("%s should be terminal", status)
		}
	}
}

func TestStatusFromOrderStatus(t *testing.T) {
	if got := statusFromOrderStatus("200"); got != constants.PaymentStatusPaid {
		t.Fatalf("order_status 200 should map to paid, got %s", got)
	}
	for _, orderStatus := range []string{"400", "500", "FAILED", ""} {
		if got := statusFromOrderStatus(orderStatus); got != constants.PaymentStatusFailed {
			t.Fatalf("order_status %q should map to failed, got %s", orderStatus, got)
		}
	}
}
