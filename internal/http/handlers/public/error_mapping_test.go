package public

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taxepay/internal/service"

	"github.com/gin-gonic/gin"
)

func TestInitiateErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"already processed", service.ErrPaymentRequestNotPending, http.StatusBadRequest},
		{"gateway unreachable", service.ErrGatewayUnavailable, http.StatusBadRequest},
		{"unsupported method", service.ErrPaymentMethodInvalid, http.StatusBadRequest},
		{"unknown request", service.ErrPaymentRequestNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/payments/initiate", nil)
		respondPaymentInitiateError(c, tc.err)
		if w.Code != tc.want {
			t.Fatalf("%s: want %d got %d", tc.name, tc.want, w.Code)
		}
	}
}
