package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taxepay/internal/config"
	"github.com/taxepay/internal/constants"
	"github.com/taxepay/internal/logger"
	"github.com/taxepay/internal/models"
	"github.com/taxepay/internal/payment/mypayga"
	"github.com/taxepay/internal/queue"
	"github.com/taxepay/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService payment orchestration
type PaymentService struct {
	cfg          *config.Config
	requestRepo  repository.PaymentRequestRepository
	paymentRepo  repository.PaymentRepository
	operatorRepo repository.OperatorRepository
	auditSvc     *AuditService
	queueClient  *queue.Client
}

// NewPaymentService creates the payment service
func NewPaymentService(cfg *config.Config, requestRepo repository.PaymentRequestRepository, paymentRepo repository.PaymentRepository, operatorRepo repository.OperatorRepository, auditSvc *AuditService, queueClient *queue.Client) *PaymentService {
	return &PaymentService{
		cfg:          cfg,
		requestRepo:  requestRepo,
		paymentRepo:  paymentRepo,
		operatorRepo: operatorRepo,
		auditSvc:     auditSvc,
		queueClient:  queueClient,
	}
}

// InitiatePaymentInput payment initiation request
type InitiatePaymentInput struct {
	RequestNumber string
	PaymentMethod string
	PhoneNumber   string
	ActorID       uint
	ClientIP      string
	Context       context.Context
}

// InitiatePaymentResult payment initiation outcome
type InitiatePaymentResult struct {
	Payment    *models.Payment
	Request    *models.PaymentRequest
	PaymentURL string
	Message    string
}

func paymentLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}

func (s *PaymentService) gatewayConfig() *mypayga.Config {
	return &mypayga.Config{
		BaseURL:   s.cfg.Mypayga.BaseURL,
		APIKey:    s.cfg.Mypayga.APIKey,
		SecretKey: s.cfg.Mypayga.SecretKey,
		Country:   s.cfg.Mypayga.Country,
		TimeoutMS: s.cfg.Mypayga.TimeoutMS,
	}
}

// Initiate starts a mobile money collection for a pending payment request
func (s *PaymentService) Initiate(input InitiatePaymentInput) (*InitiatePaymentResult, error) {
	requestNumber := strings.TrimSpace(input.RequestNumber)
	method := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	phone := strings.TrimSpace(input.PhoneNumber)

	if requestNumber == "" {
		return nil, ErrPaymentInvalid
	}
	if !mypayga.IsSupportedMethod(method) {
		return nil, ErrPaymentMethodInvalid
	}
	if phone == "" || !strings.HasPrefix(phone, "+") {
		return nil, ErrPhoneNumberInvalid
	}

	log := paymentLogger(
		"request_number", requestNumber,
		"payment_method", method,
		"phone_number", phone,
		"actor_id", input.ActorID,
	)

	request, err := s.requestRepo.GetByRequestNumber(requestNumber)
	if err != nil {
		log.Errorw("payment_initiate_request_fetch_failed", "error", err)
		return nil, ErrPaymentUpdateFailed
	}
	if request == nil {
		log.Warnw("payment_initiate_request_not_found")
		return nil, ErrPaymentRequestNotFound
	}
	if request.Status != constants.PaymentRequestStatusPending {
		log.Warnw("payment_initiate_request_not_pending", "current_status", request.Status)
		return nil, ErrPaymentRequestNotPending
	}

	operator, err := s.operatorRepo.GetByID(request.OperatorID)
	if err != nil {
		log.Errorw("payment_initiate_operator_fetch_failed", "operator_id", request.OperatorID, "error", err)
		return nil, ErrPaymentUpdateFailed
	}
	if operator == nil {
		log.Warnw("payment_initiate_operator_not_found", "operator_id", request.OperatorID)
		return nil, ErrOperatorNotFound
	}

	ctx := input.Context
	if ctx == nil {
		ctx = context.Background()
	}

	clientAppURL := strings.TrimRight(s.cfg.Mypayga.ClientAppURL, "/")
	result, err := mypayga.CreatePayment(ctx, s.gatewayConfig(), mypayga.CreateInput{
		UniqueID:      request.RequestNumber,
		Amount:        request.TotalAmount.Decimal.String(),
		PaymentMethod: method,
		ClientPhone:   phone,
		ClientEmail:   operator.Email,
		Description:   fmt.Sprintf("Paiement Taxe N° %s", request.RequestNumber),
		Currency:      request.Currency,
		CallbackURL:   s.cfg.Mypayga.CallbackURL,
		SuccessURL:    fmt.Sprintf("%s/payment/success?ref=%s", clientAppURL, request.RequestNumber),
		ErrorURL:      fmt.Sprintf("%s/payment/error?ref=%s", clientAppURL, request.RequestNumber),
	})
	if err != nil {
		log.Errorw("payment_initiate_gateway_failed", "error", err)
		switch {
		case errors.Is(err, mypayga.ErrRequestFailed):
			return nil, ErrGatewayUnavailable
		case errors.Is(err, mypayga.ErrResponseInvalid):
			return nil, fmt.Errorf("%w: %s", ErrGatewayRefused, gatewayMessage(err))
		default:
			return nil, ErrPaymentInvalid
		}
	}

	now := time.Now()
	payment := &models.Payment{
		PaymentRequestID: request.ID,
		OperatorID:       request.OperatorID,
		OperatorName:     operator.DisplayName(),
		Amount:           request.TotalAmount,
		Currency:         request.Currency,
		Status:           constants.PaymentStatusPending,
		Method:           method,
		Provider:         constants.PaymentProviderMypayga,
		ProviderToken:    result.PaymentToken,
		ProviderOrderID:  result.OrderID,
		ProviderMessage:  result.Message,
		PhoneNumber:      phone,
		PaymentURL:       result.PaymentURL,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.WithTx(tx).Create(payment); err != nil {
			return ErrPaymentUpdateFailed
		}
		request.PaymentMethod = method
		request.PaymentToken = result.PaymentToken
		request.UpdatedAt = now
		if err := s.requestRepo.WithTx(tx).Update(request); err != nil {
			return ErrPaymentUpdateFailed
		}
		return nil
	})
	if err != nil {
		log.Errorw("payment_initiate_persist_failed", "payment_token", result.PaymentToken, "error", err)
		return nil, err
	}

	s.recordAudit(&models.AuditLog{
		ActorID:    fmt.Sprintf("%d", input.ActorID),
		ActorType:  constants.AuditActorTypeUser,
		Source:     constants.AuditSourceAPI,
		Action:     constants.AuditActionPaymentInitiated,
		Resource:   "payment",
		ResourceID: payment.ID,
		After:      paymentAuditSnapshot(payment),
		ClientIP:   input.ClientIP,
	}, log)

	log.Infow("payment_initiated",
		"payment_id", payment.ID,
		"payment_token", payment.ProviderToken,
		"amount", payment.Amount.String(),
	)
	return &InitiatePaymentResult{
		Payment:    payment,
		Request:    request,
		PaymentURL: result.PaymentURL,
		Message:    result.Message,
	}, nil
}

// List returns payments newest first with an exclusive id cursor
func (s *PaymentService) List(filter repository.PaymentListFilter) ([]models.Payment, error) {
	if filter.Status != "" {
		status := normalizePaymentStatus(filter.Status)
		if !isPaymentStatusValid(status) {
			return nil, ErrPaymentInvalid
		}
		filter.Status = status
	}
	payments, err := s.paymentRepo.List(filter)
	if err != nil {
		paymentLogger().Errorw("payment_list_failed", "error", err)
		return nil, ErrPaymentUpdateFailed
	}
	return payments, nil
}

// Get returns a payment with its request
func (s *PaymentService) Get(id uint) (*models.Payment, *models.PaymentRequest, error) {
	if id == 0 {
		return nil, nil, ErrPaymentInvalid
	}
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		paymentLogger("payment_id", id).Errorw("payment_fetch_failed", "error", err)
		return nil, nil, ErrPaymentUpdateFailed
	}
	if payment == nil {
		return nil, nil, ErrPaymentNotFound
	}
	request, err := s.requestRepo.GetByID(payment.PaymentRequestID)
	if err != nil {
		paymentLogger("payment_id", id).Errorw("payment_request_fetch_failed", "error", err)
		return nil, nil, ErrPaymentUpdateFailed
	}
	return payment, request, nil
}

// DetectNetwork resolves the mobile money network for a phone number
func (s *PaymentService) DetectNetwork(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || !strings.HasPrefix(phone, "+") {
		return "", ErrPhoneNumberInvalid
	}
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := mypayga.GetNetwork(ctx, s.gatewayConfig(), phone)
	if err != nil {
		paymentLogger("phone_number", phone).Warnw("network_detect_failed", "error", err)
		if errors.Is(err, mypayga.ErrRequestFailed) {
			return "", ErrGatewayUnavailable
		}
		return "", ErrGatewayRefused
	}
	return result.Network, nil
}

// recordAudit is best effort, audit failures never break the payment flow
func (s *PaymentService) recordAudit(entry *models.AuditLog, log *zap.SugaredLogger) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.Record(entry); err != nil {
		log.Warnw("payment_audit_record_failed", "action", entry.Action, "error", err)
	}
}

// gatewayMessage strips the sentinel prefix from a gateway error
func gatewayMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}

func paymentAuditSnapshot(payment *models.Payment) models.JSON {
	if payment == nil {
		return nil
	}
	return models.JSON{
		"payment_request_id": payment.PaymentRequestID,
		"status":             payment.Status,
		"method":             payment.Method,
		"amount":             payment.Amount.String(),
		"currency":           payment.Currency,
		"provider_token":     payment.ProviderToken,
	}
}
