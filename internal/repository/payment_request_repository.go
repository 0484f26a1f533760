package repository

import (
	"errors"
	"strings"

	"github.com/taxepay/internal/models"

	"gorm.io/gorm"
)

// PaymentRequestRepository payment request data access interface
type PaymentRequestRepository interface {
	Create(request *models.PaymentRequest) error
	Update(request *models.PaymentRequest) error
	GetByID(id uint) (*models.PaymentRequest, error)
	GetByRequestNumber(requestNumber string) (*models.PaymentRequest, error)
	GetByPaymentToken(token string) (*models.PaymentRequest, error)
	WithTx(tx *gorm.DB) *GormPaymentRequestRepository
}

// GormPaymentRequestRepository GORM implementation
type GormPaymentRequestRepository struct {
	db *gorm.DB
}

// NewPaymentRequestRepository creates the payment request repository
func NewPaymentRequestRepository(db *gorm.DB) *GormPaymentRequestRepository {
	return &GormPaymentRequestRepository{db: db}
}

// WithTx binds the repository to a transaction
func (r *GormPaymentRequestRepository) WithTx(tx *gorm.DB) *GormPaymentRequestRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRequestRepository{db: tx}
}

// Create inserts a payment request
func (r *GormPaymentRequestRepository) Create(request *models.PaymentRequest) error {
	return r.db.Create(request).Error
}

// Update persists a payment request
func (r *GormPaymentRequestRepository) Update(request *models.PaymentRequest) error {
	return r.db.Save(request).Error
}

// GetByID fetches a payment request by primary key
func (r *GormPaymentRequestRepository) GetByID(id uint) (*models.PaymentRequest, error) {
	var request models.PaymentRequest
	if err := r.db.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// GetByRequestNumber fetches a payment request by business number
func (r *GormPaymentRequestRepository) GetByRequestNumber(requestNumber string) (*models.PaymentRequest, error) {
	requestNumber = strings.TrimSpace(requestNumber)
	if requestNumber == "" {
		return nil, nil
	}
	var request models.PaymentRequest
	result := r.db.Where("request_number = ?", requestNumber).Limit(1).Find(&request)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &request, nil
}

// GetByPaymentToken fetches the request carrying a gateway token
func (r *GormPaymentRequestRepository) GetByPaymentToken(token string) (*models.PaymentRequest, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	var request models.PaymentRequest
	result := r.db.Where("payment_token = ?", token).Order("id desc").Limit(1).Find(&request)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &request, nil
}
