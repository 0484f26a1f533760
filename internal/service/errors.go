package service

import "errors"

// Service layer sentinel errors, mapped to HTTP statuses at the handler edge.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user account disabled")

	ErrOperatorNotFound         = errors.New("economic operator not found")
	ErrPaymentRequestNotFound   = errors.New("payment request not found")
	ErrPaymentRequestNotPending = errors.New("payment request is not pending")
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrPaymentInvalid           = errors.New("payment input invalid")
	ErrPaymentNotPaid           = errors.New("payment is not paid")
	ErrPaymentMethodInvalid     = errors.New("payment method not supported")
	ErrPhoneNumberInvalid       = errors.New("phone number invalid")
	ErrPaymentAmountMismatch    = errors.New("payment amount mismatch")
	ErrPaymentUpdateFailed      = errors.New("payment update failed")
	ErrGatewayUnavailable       = errors.New("payment gateway unavailable")
	ErrGatewayRefused           = errors.New("payment gateway refused the request")
	ErrSignatureInvalid         = errors.New("callback signature invalid")
	ErrReceiptSendFailed        = errors.New("receipt send failed")
)
