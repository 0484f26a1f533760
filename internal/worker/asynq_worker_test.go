package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/taxepay/internal/config"
	"github.com/taxepay/internal/constants"
	"github.com/taxepay/internal/models"
	"github.com/taxepay/internal/provider"
	"github.com/taxepay/internal/queue"
	"github.com/taxepay/internal/repository"
	"github.com/taxepay/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.PaymentRequest{},
		&models.Payment{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{
		Receipt: config.ReceiptConfig{IssuerName: "Commune - Régie des Taxes"},
	}
	requestRepo := repository.NewPaymentRequestRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	operatorRepo := repository.NewOperatorRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	auditSvc := service.NewAuditService(auditRepo, nil)
	paymentSvc := service.NewPaymentService(cfg, requestRepo, paymentRepo, operatorRepo, auditSvc, nil)

	container := &provider.Container{
		Config:         cfg,
		RequestRepo:    requestRepo,
		PaymentRepo:    paymentRepo,
		AuditLogRepo:   auditRepo,
		AuditService:   auditSvc,
		PaymentService: paymentSvc,
	}
	return NewConsumer(container), db
}

func TestHandleAuditAppendPersistsEntry(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	payload := queue.AuditAppendPayload{
		ActorID:    "3",
		ActorType:  constants.AuditActorTypeUser,
		Source:     constants.AuditSourceAPI,
		Action:     constants.AuditActionPaymentInitiated,
		Resource:   "payment",
		ResourceID: 12,
		After:      map[string]interface{}{"status": constants.PaymentStatusPending},
		RecordedAt: time.Now(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}

	if err := consumer.handleAuditAppend(context.Background(), asynq.NewTask(queue.TaskAuditAppend, body)); err != nil {
		t.Fatalf("handle audit append failed: %v", err)
	}

	var entry models.AuditLog
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("load audit entry failed: %v", err)
	}
	if entry.Action != constants.AuditActionPaymentInitiated || entry.ResourceID != 12 {
		t.Fatalf("unexpected audit entry: %+v", entry)
	}
}

func TestHandleAuditAppendBadPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)
	err := consumer.handleAuditAppend(context.Background(), asynq.NewTask(queue.TaskAuditAppend, []byte("{broken")))
	if err == nil {
		t.Fatalf("malformed payload should error for retry visibility")
	}
}

func TestHandleReceiptIssueStampsRequest(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	request := &models.PaymentRequest{
		RequestNumber: "PR-WORKER-1",
		OperatorID:    1,
		OperatorName:  "Boulangerie Moderne",
		TotalAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(45000)),
		Currency:      constants.DefaultCurrency,
		Status:        constants.PaymentRequestStatusPaid,
	}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	payment := &models.Payment{
		PaymentRequestID: request.ID,
		Amount:           models.NewMoneyFromDecimal(decimal.NewFromInt(45000)),
		Currency:         constants.DefaultCurrency,
		Status:           constants.PaymentStatusPaid,
		Method:           constants.PaymentMethodAirtel,
		Provider:         constants.PaymentProviderMypayga,
		ProviderToken:    "TOK-WORKER-1",
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	body, err := json.Marshal(queue.ReceiptIssuePayload{PaymentID: payment.ID})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	if err := consumer.handleReceiptIssue(context.Background(), asynq.NewTask(queue.TaskReceiptIssue, body)); err != nil {
		t.Fatalf("handle receipt issue failed: %v", err)
	}

	var storedRequest models.PaymentRequest
	if err := db.First(&storedRequest, request.ID).Error; err != nil {
		t.Fatalf("reload request failed: %v", err)
	}
	if storedRequest.NotifiedAt == nil {
		t.Fatalf("receipt issue should stamp notified_at")
	}
}

func TestHandleReceiptIssueUnknownPayment(t *testing.T) {
	consumer, _ := setupConsumerTest(t)
	body, _ := json.Marshal(queue.ReceiptIssuePayload{PaymentID: 999})
	if err := consumer.handleReceiptIssue(context.Background(), asynq.NewTask(queue.TaskReceiptIssue, body)); err != nil {
		t.Fatalf("unknown payment should be swallowed, got: %v", err)
	}
}
