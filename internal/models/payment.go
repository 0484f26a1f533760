package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment one settlement attempt against a payment request.
// ProviderToken is the aggregator-issued token and the only key
// callbacks carry, so it is unique across live rows.
type Payment struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	PaymentRequestID uint           `gorm:"index;not null" json:"payment_request_id"`
	OperatorID       uint           `gorm:"index" json:"operator_id"`
	OperatorName     string         `json:"operator_name"`
	Amount           Money          `gorm:"type:decimal(20,2);not null" json:"amount"`
	Currency         string         `gorm:"not null" json:"currency"`
	Status           string         `gorm:"index;not null" json:"status"`
	Method           string         `gorm:"not null" json:"method"`
	Provider         string         `gorm:"not null" json:"provider"`
	ProviderToken    string         `gorm:"uniqueIndex;not null" json:"provider_token"`
	ProviderOrderID  string         `gorm:"index" json:"provider_order_id"`
	ProviderTxnID    string         `json:"provider_txn_id"`
	ProviderMessage  string         `gorm:"type:text" json:"provider_message"`
	ProviderPayload  JSON           `gorm:"type:json" json:"provider_payload"`
	PhoneNumber      string         `json:"phone_number"`
	PaymentURL       string         `gorm:"type:text" json:"payment_url"`
	ReceiptSentAt    *time.Time     `json:"receipt_sent_at"`
	PaidAt           *time.Time     `gorm:"index" json:"paid_at"`
	CallbackAt       *time.Time     `gorm:"index" json:"callback_at"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName table name override
func (Payment) TableName() string {
	return "payments"
}
