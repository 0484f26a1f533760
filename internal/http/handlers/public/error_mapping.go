package public

import (
	"errors"
	"net/http"

	"github.com/taxepay/internal/http/handlers/shared"
	"github.com/taxepay/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps a service error to an API status and message
type mappedHandlerError struct {
	target  error
	status  int
	message string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackStatus int, fallbackMessage string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			shared.RespondError(c, rule.status, rule.message, nil)
			return
		}
	}
	shared.RespondError(c, fallbackStatus, fallbackMessage, err)
}

var paymentInitiateErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentMethodInvalid, status: http.StatusBadRequest, message: "unsupported payment method"},
	{target: service.ErrPhoneNumberInvalid, status: http.StatusBadRequest, message: "invalid phone number"},
	{target: service.ErrPaymentRequestNotFound, status: http.StatusNotFound, message: "payment request not found"},
	{target: service.ErrPaymentRequestNotPending, status: http.StatusBadRequest, message: "payment request already processed"},
	{target: service.ErrOperatorNotFound, status: http.StatusNotFound, message: "operator not found"},
	{target: service.ErrGatewayUnavailable, status: http.StatusBadRequest, message: "payment gateway unavailable"},
}

var paymentCallbackErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentNotFound, status: http.StatusNotFound, message: "payment not found"},
	{target: service.ErrPaymentInvalid, status: http.StatusBadRequest, message: "invalid callback payload"},
	{target: service.ErrPaymentAmountMismatch, status: http.StatusBadRequest, message: "callback amount mismatch"},
}

func respondPaymentInitiateError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrGatewayRefused) {
		shared.RespondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	respondWithMappedError(c, err, paymentInitiateErrorRules, http.StatusInternalServerError, "payment initiation failed")
}

func respondPaymentCallbackError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentCallbackErrorRules, http.StatusInternalServerError, "payment callback failed")
}
