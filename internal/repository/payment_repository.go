package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/taxepay/internal/constants"
	"github.com/taxepay/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository payment data access interface
type PaymentRepository interface {
	Create(payment *models.Payment) error
	Update(payment *models.Payment) error
	UpdateIfStatus(payment *models.Payment, fromStatus string) (bool, error)
	GetByID(id uint) (*models.Payment, error)
	GetByProviderToken(token string) (*models.Payment, error)
	List(filter PaymentListFilter) ([]models.Payment, error)
	ListStalePending(olderThan time.Time, limit int) ([]models.Payment, error)
	ListPaidWithUnpaidRequest(limit int) ([]models.Payment, error)
	WithTx(tx *gorm.DB) *GormPaymentRepository
}

// GormPaymentRepository GORM implementation
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates the payment repository
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx binds the repository to a transaction
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create inserts a payment attempt
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// Update persists a payment attempt
func (r *GormPaymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

// UpdateIfStatus writes the callback fields only while the stored row still
// holds fromStatus, reporting whether the write applied. Concurrent gateway
// deliveries race on this guard and exactly one wins.
func (r *GormPaymentRepository) UpdateIfStatus(payment *models.Payment, fromStatus string) (bool, error) {
	result := r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", payment.ID, fromStatus).
		Select("status", "callback_at", "updated_at", "paid_at", "provider_txn_id", "provider_message", "provider_payload").
		Updates(payment)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetByID fetches a payment by primary key
func (r *GormPaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByProviderToken fetches the payment holding a gateway token
func (r *GormPaymentRepository) GetByProviderToken(token string) (*models.Payment, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	var payment models.Payment
	result := r.db.Where("provider_token = ?", token).Limit(1).Find(&payment)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &payment, nil
}

// List returns payments newest first, keyed by an exclusive id cursor
func (r *GormPaymentRepository) List(filter PaymentListFilter) ([]models.Payment, error) {
	query := r.db.Model(&models.Payment{})
	if filter.StartAfterID != 0 {
		query = query.Where("id < ?", filter.StartAfterID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OperatorID != 0 {
		query = query.Where("operator_id = ?", filter.OperatorID)
	}

	var payments []models.Payment
	if err := query.Order("id desc").Limit(normalizeListLimit(filter.Limit)).Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// ListStalePending returns pending payments older than the cutoff, oldest first
func (r *GormPaymentRepository) ListStalePending(olderThan time.Time, limit int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var payments []models.Payment
	err := r.db.Where("status = ? AND created_at < ?", constants.PaymentStatusPending, olderThan).
		Order("id asc").Limit(limit).Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// ListPaidWithUnpaidRequest returns paid payments whose request is not paid
func (r *GormPaymentRepository) ListPaidWithUnpaidRequest(limit int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var payments []models.Payment
	err := r.db.
		Joins("JOIN payment_requests ON payment_requests.id = payments.payment_request_id").
		Where("payments.status = ? AND payment_requests.status <> ?",
			constants.PaymentStatusPaid, constants.PaymentRequestStatusPaid).
		Order("payments.id asc").Limit(limit).Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
