package public

import (
	"errors"
	"net/http"

	"github.com/taxepay/internal/http/handlers/shared"
	"github.com/taxepay/internal/http/response"
	"github.com/taxepay/internal/service"

	"github.com/gin-gonic/gin"
)

// InitiatePaymentRequest taxpayer payment initiation body
type InitiatePaymentRequest struct {
	PaymentRequestID string `json:"paymentRequestId" binding:"required"`
	PaymentMethod    string `json:"paymentMethod" binding:"required"`
	PhoneNumber      string `json:"phoneNumber" binding:"required"`
}

// DetectNetworkQuery phone network lookup query
type DetectNetworkQuery struct {
	PhoneNumber string `form:"phoneNumber" binding:"required"`
}

// InitiatePayment starts a mobile-money payment for a pending request
func (h *Handler) InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.PaymentService.Initiate(service.InitiatePaymentInput{
		RequestNumber: req.PaymentRequestID,
		PaymentMethod: req.PaymentMethod,
		PhoneNumber:   req.PhoneNumber,
		ClientIP:      c.ClientIP(),
		Context:       c.Request.Context(),
	})
	if err != nil {
		respondPaymentInitiateError(c, err)
		return
	}

	response.Success(c, gin.H{
		"paymentId":     result.Payment.ID,
		"paymentUrl":    result.PaymentURL,
		"paymentToken":  result.Payment.ProviderToken,
		"requestNumber": result.Request.RequestNumber,
		"status":        result.Payment.Status,
		"message":       result.Message,
	})
}

// DetectNetwork resolves the mobile-money network for a phone number
func (h *Handler) DetectNetwork(c *gin.Context) {
	var query DetectNetworkQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		shared.RespondError(c, http.StatusBadRequest, "invalid query", err)
		return
	}

	network, err := h.PaymentService.DetectNetwork(c.Request.Context(), query.PhoneNumber)
	if err != nil {
		if errors.Is(err, service.ErrPhoneNumberInvalid) {
			shared.RespondError(c, http.StatusBadRequest, "invalid phone number", nil)
			return
		}
		shared.RespondError(c, http.StatusBadRequest, "network detection failed", err)
		return
	}

	response.Success(c, gin.H{
		"phoneNumber": query.PhoneNumber,
		"network":     network,
	})
}
