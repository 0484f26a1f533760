package console

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/taxepay/internal/http/handlers/shared"
	"github.com/taxepay/internal/http/response"
	"github.com/taxepay/internal/repository"
	"github.com/taxepay/internal/service"

	"github.com/gin-gonic/gin"
)

// ListPaymentsQuery cursor pagination parameters
type ListPaymentsQuery struct {
	Limit      int    `form:"limit"`
	StartAfter uint   `form:"startAfter"`
	Status     string `form:"status"`
}

// ListPayments returns payments newest first with an exclusive id cursor
func (h *Handler) ListPayments(c *gin.Context) {
	var query ListPaymentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		shared.RespondError(c, http.StatusBadRequest, "invalid query", err)
		return
	}

	payments, err := h.PaymentService.List(repository.PaymentListFilter{
		Limit:        query.Limit,
		StartAfterID: query.StartAfter,
		Status:       query.Status,
		OperatorID:   operatorScope(c),
	})
	if err != nil {
		if errors.Is(err, service.ErrPaymentInvalid) {
			shared.RespondError(c, http.StatusBadRequest, "unknown payment status", nil)
			return
		}
		shared.RespondError(c, http.StatusInternalServerError, "payment list failed", err)
		return
	}

	nextCursor := uint(0)
	if len(payments) > 0 {
		nextCursor = payments[len(payments)-1].ID
	}
	response.Success(c, gin.H{
		"payments":   payments,
		"nextCursor": nextCursor,
	})
}

// GetPayment returns one payment with its request
func (h *Handler) GetPayment(c *gin.Context) {
	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || paymentID == 0 {
		shared.RespondError(c, http.StatusBadRequest, "invalid payment id", nil)
		return
	}

	payment, request, err := h.PaymentService.Get(uint(paymentID))
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			shared.RespondError(c, http.StatusNotFound, "payment not found", nil)
			return
		}
		shared.RespondError(c, http.StatusInternalServerError, "payment fetch failed", err)
		return
	}

	if scope := operatorScope(c); scope != 0 && payment.OperatorID != scope {
		shared.RespondError(c, http.StatusNotFound, "payment not found", nil)
		return
	}

	response.Success(c, gin.H{
		"payment": payment,
		"request": request,
	})
}

// SendReceipt re-sends the receipt of a paid payment
func (h *Handler) SendReceipt(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || paymentID == 0 {
		shared.RespondError(c, http.StatusBadRequest, "invalid payment id", nil)
		return
	}

	payment, err := h.PaymentService.SendReceipt(service.SendReceiptInput{
		PaymentID: uint(paymentID),
		ActorID:   uid,
		ClientIP:  c.ClientIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			shared.RespondError(c, http.StatusNotFound, "payment not found", nil)
		case errors.Is(err, service.ErrPaymentNotPaid):
			shared.RespondError(c, http.StatusBadRequest, "payment is not paid", nil)
		default:
			shared.RespondError(c, http.StatusInternalServerError, "receipt send failed", err)
		}
		return
	}

	response.SuccessWithMsg(c, "receipt scheduled", gin.H{
		"paymentId":     payment.ID,
		"receiptSentAt": payment.ReceiptSentAt,
	})
}
