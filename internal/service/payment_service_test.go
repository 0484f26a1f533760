package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/taxepay/internal/constants"
	"github.com/taxepay/internal/models"
	"github.com/taxepay/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedOperator(t *testing.T, db *gorm.DB) *models.EconomicOperator {
	t.Helper()
	operator := &models.EconomicOperator{
		Status:       constants.OperatorStatusApproved,
		FirstName:    "Awa",
		LastName:     "Ndong",
		Phone:        "+24107000000",
		Email:        "contact@boulangerie-moderne.ga",
		BusinessName: "Boulangerie Moderne",
	}
	if err := db.Create(operator).Error; err != nil {
		t.Fatalf("create operator failed: %v", err)
	}
	return operator
}

func seedPendingRequest(t *testing.T, db *gorm.DB, operatorID uint, requestNumber string) *models.PaymentRequest {
	t.Helper()
	request := &models.PaymentRequest{
		RequestNumber: requestNumber,
		OperatorID:    operatorID,
		OperatorName:  "Boulangerie Moderne",
		Services: models.ServiceLines{
			{ServiceID: 1, ServiceName: "Taxe sur étalage", Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(45000)), Period: "2026-08"},
		},
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(45000)),
		Currency:    constants.DefaultCurrency,
		Status:      constants.PaymentRequestStatusPending,
	}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("create payment request failed: %v", err)
	}
	return request
}

func newGatewayStub(t *testing.T, calls *int64) *httptest.Server {
	return newCapturingGatewayStub(t, calls, nil)
}

func newCapturingGatewayStub(t *testing.T, calls *int64, lastPayBody *map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt64(calls, 1)
		}
		switch r.URL.Path {
		case "/pay":
			if lastPayBody != nil {
				body := map[string]string{}
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("decode pay body failed: %v", err)
				}
				*lastPayBody = body
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status_request": 200,
				"message":        "payment initiated",
				"payment_token":  "TOK-INIT-1",
				"payment_url":    "https://pay.mypayga.example/TOK-INIT-1",
				"order_id":       "ORD-INIT-1",
			})
		case "/network":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"network": "airtel_money",
				"message": "ok",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestInitiateCreatesPaymentAndStampsRequest(t *testing.T) {
	svc, db, cfg := setupPaymentServiceTest(t)
	operator := seedOperator(t, db)
	request := seedPendingRequest(t, db, operator.ID, "PR-2026-0100")

	var payBody map[string]string
	srv := newCapturingGatewayStub(t, nil, &payBody)
	defer srv.Close()
	cfg.Mypayga.BaseURL = srv.URL

	result, err := svc.Initiate(InitiatePaymentInput{
		RequestNumber: "PR-2026-0100",
		PaymentMethod: constants.PaymentMethodAirtel,
		PhoneNumber:   "+24107000000",
		ActorID:       7,
	})
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if result.Payment.ProviderToken != "TOK-INIT-1" {
		t.Fatalf("unexpected provider token: %s", result.Payment.ProviderToken)
	}
	if result.PaymentURL != "https://pay.mypayga.example/TOK-INIT-1" {
		t.Fatalf("unexpected payment url: %s", result.PaymentURL)
	}
	if result.Payment.Status != constants.PaymentStatusPending {
		t.Fatalf("new payment should be pending, got %s", result.Payment.Status)
	}
	if result.Payment.OperatorName != "Boulangerie Moderne" {
		t.Fatalf("operator name not snapshotted, got %q", result.Payment.OperatorName)
	}
	if result.Payment.ProviderOrderID != "ORD-INIT-1" {
		t.Fatalf("provider order id not stored, got %q", result.Payment.ProviderOrderID)
	}
	if payBody["client_email"] != operator.Email {
		t.Fatalf("gateway should receive the operator email, got %q", payBody["client_email"])
	}
	if payBody["client_phone"] != "+24107000000" {
		t.Fatalf("gateway should receive the payer phone, got %q", payBody["client_phone"])
	}

	var storedRequest models.PaymentRequest
	if err := db.First(&storedRequest, request.ID).Error; err != nil {
		t.Fatalf("reload request failed: %v", err)
	}
	if storedRequest.PaymentToken != "TOK-INIT-1" || storedRequest.PaymentMethod != constants.PaymentMethodAirtel {
		t.Fatalf("request not stamped: %+v", storedRequest)
	}
	if storedRequest.Status != constants.PaymentRequestStatusPending {
		t.Fatalf("request must stay pending until callback, got %s", storedRequest.Status)
	}

	if got := countAuditEntries(t, db); got != 1 {
		t.Fatalf("expected one initiation audit entry, got %d", got)
	}
	var entry models.AuditLog
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("load audit entry failed: %v", err)
	}
	if entry.Action != constants.AuditActionPaymentInitiated || entry.ActorID != "7" {
		t.Fatalf("unexpected audit entry: %+v", entry)
	}
}

func TestInitiateRejectsNonPendingRequestWithoutGatewayCall(t *testing.T) {
	svc, db, cfg := setupPaymentServiceTest(t)
	operator := seedOperator(t, db)
	request := seedPendingRequest(t, db, operator.ID, "PR-2026-0101")
	if err := db.Model(request).Update("status", constants.PaymentRequestStatusPaid).Error; err != nil {
		t.Fatalf("mark request paid failed: %v", err)
	}

	var calls int64
	srv := newGatewayStub(t, &calls)
	defer srv.Close()
	cfg.Mypayga.BaseURL = srv.URL

	_, err := svc.Initiate(InitiatePaymentInput{
		RequestNumber: "PR-2026-0101",
		PaymentMethod: constants.PaymentMethodAirtel,
		PhoneNumber:   "+24107000000",
	})
	if err != ErrPaymentRequestNotPending {
		t.Fatalf("expected ErrPaymentRequestNotPending, got: %v", err)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Fatalf("gateway must not be called for a processed request")
	}

	var paymentCount int64
	if err := db.Model(&models.Payment{}).Count(&paymentCount).Error; err != nil {
		t.Fatalf("count payments failed: %v", err)
	}
	if paymentCount != 0 {
		t.Fatalf("no payment rows should exist, got %d", paymentCount)
	}
}

func TestInitiateValidation(t *testing.T) {
	svc, _, _ := setupPaymentServiceTest(t)

	if _, err := svc.Initiate(InitiatePaymentInput{
		RequestNumber: "PR-X",
		PaymentMethod: "orange_money",
		PhoneNumber:   "+24107000000",
	}); err != ErrPaymentMethodInvalid {
		t.Fatalf("expected ErrPaymentMethodInvalid, got: %v", err)
	}

	if _, err := svc.Initiate(InitiatePaymentInput{
		RequestNumber: "PR-X",
		PaymentMethod: constants.PaymentMethodAirtel,
		PhoneNumber:   "07000000",
	}); err != ErrPhoneNumberInvalid {
		t.Fatalf("expected ErrPhoneNumberInvalid, got: %v", err)
	}

	if _, err := svc.Initiate(InitiatePaymentInput{
		RequestNumber: "PR-MISSING",
		PaymentMethod: constants.PaymentMethodAirtel,
		PhoneNumber:   "+24107000000",
	}); err != ErrPaymentRequestNotFound {
		t.Fatalf("expected ErrPaymentRequestNotFound, got: %v", err)
	}
}

func TestSendReceiptRequiresPaidPayment(t *testing.T) {
	svc, db, _ := setupPaymentServiceTest(t)
	_, payment := seedRequestWithPayment(t, db)

	if _, err := svc.SendReceipt(SendReceiptInput{PaymentID: payment.ID, ActorID: 3}); err != ErrPaymentNotPaid {
		t.Fatalf("expected ErrPaymentNotPaid, got: %v", err)
	}

	if _, err := svc.HandleCallback(PaymentCallbackInput{Data: successCallbackData()}); err != nil {
		t.Fatalf("handle callback failed: %v", err)
	}

	updated, err := svc.SendReceipt(SendReceiptInput{PaymentID: payment.ID, ActorID: 3})
	if err != nil {
		t.Fatalf("send receipt failed: %v", err)
	}
	if updated.ReceiptSentAt == nil {
		t.Fatalf("receipt_sent_at should be stamped")
	}

	var receiptAudits int64
	if err := db.Model(&models.AuditLog{}).
		Where("action = ?", constants.AuditActionPaymentReceiptSent).
		Count(&receiptAudits).Error; err != nil {
		t.Fatalf("count receipt audits failed: %v", err)
	}
	if receiptAudits != 1 {
		t.Fatalf("expected one receipt audit entry, got %d", receiptAudits)
	}
}

func TestSendReceiptUnknownPayment(t *testing.T) {
	svc, _, _ := setupPaymentServiceTest(t)
	if _, err := svc.SendReceipt(SendReceiptInput{PaymentID: 999}); err != ErrPaymentNotFound {
		t.Fatalf("expected ErrPaymentNotFound, got: %v", err)
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := setupPaymentServiceTest(t)
	if _, err := svc.List(repository.PaymentListFilter{Status: "exploded"}); err != ErrPaymentInvalid {
		t.Fatalf("expected ErrPaymentInvalid for unknown status, got: %v", err)
	}
}

func TestGetReturnsPaymentWithRequest(t *testing.T) {
	svc, db, _ := setupPaymentServiceTest(t)
	request, payment := seedRequestWithPayment(t, db)

	got, gotRequest, err := svc.Get(payment.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != payment.ID || gotRequest == nil || gotRequest.ID != request.ID {
		t.Fatalf("unexpected get result: %+v, %+v", got, gotRequest)
	}

	if _, _, err := svc.Get(999); err != ErrPaymentNotFound {
		t.Fatalf("expected ErrPaymentNotFound, got: %v", err)
	}
}

func TestDetectNetwork(t *testing.T) {
	svc, _, cfg := setupPaymentServiceTest(t)

	srv := newGatewayStub(t, nil)
	defer srv.Close()
	cfg.Mypayga.BaseURL = srv.URL

	network, err := svc.DetectNetwork(nil, "+24107000000")
	if err != nil {
		t.Fatalf("detect network failed: %v", err)
	}
	if network != constants.PaymentMethodAirtel {
		t.Fatalf("unexpected network: %s", network)
	}

	if _, err := svc.DetectNetwork(nil, "07000000"); err != ErrPhoneNumberInvalid {
		t.Fatalf("expected ErrPhoneNumberInvalid, got: %v", err)
	}
}
