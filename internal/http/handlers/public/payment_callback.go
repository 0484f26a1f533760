package public

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/taxepay/internal/http/handlers/shared"
	"github.com/taxepay/internal/http/response"
	"github.com/taxepay/internal/models"
	"github.com/taxepay/internal/payment/mypayga"
	"github.com/taxepay/internal/service"

	"github.com/gin-gonic/gin"
)

const callbackLogValueLimit = 4096

// PaymentCallback receives the aggregator callback.
// The signature is verified before any database read or write.
func (h *Handler) PaymentCallback(c *gin.Context) {
	shared.RequestLog(c).Infow("payment_callback_received",
		"client_ip", c.ClientIP(),
		"content_type", strings.TrimSpace(c.GetHeader("Content-Type")),
	)

	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		shared.RespondError(c, http.StatusBadRequest, "invalid callback body", err)
		return
	}

	var data mypayga.CallbackData
	if err := json.Unmarshal(body, &data); err != nil {
		shared.RespondError(c, http.StatusBadRequest, "invalid callback body", err)
		return
	}

	if err := h.PaymentService.VerifyCallbackSignature(data); err != nil {
		shared.RequestLog(c).Warnw("payment_callback_rejected",
			"payment_token", strings.TrimSpace(data.PaymentToken),
			"unique_id", strings.TrimSpace(data.UniqueID),
			"raw_body", truncateCallbackLogValue(string(body)),
		)
		shared.RespondError(c, http.StatusUnauthorized, "invalid callback signature", nil)
		return
	}

	var payload models.JSON
	if err := json.Unmarshal(body, &payload); err != nil {
		payload = models.JSON{}
	}

	payment, err := h.PaymentService.HandleCallback(service.PaymentCallbackInput{
		Data:     data,
		Payload:  payload,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		respondPaymentCallbackError(c, err)
		return
	}

	response.Success(c, gin.H{
		"paymentId": payment.ID,
		"status":    payment.Status,
	})
}

func truncateCallbackLogValue(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) <= callbackLogValueLimit {
		return raw
	}
	return raw[:callbackLogValueLimit] + "...(truncated)"
}
