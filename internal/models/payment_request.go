package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentRequest a tax assessment waiting to be settled
type PaymentRequest struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	RequestNumber string         `gorm:"uniqueIndex;not null" json:"request_number"`
	OperatorID    uint           `gorm:"index;not null" json:"operator_id"`
	OperatorName  string         `gorm:"type:varchar(255)" json:"operator_name"`
	Services      ServiceLines   `gorm:"type:json" json:"services"`
	TotalAmount   Money          `gorm:"type:decimal(20,2);not null" json:"total_amount"`
	Currency      string         `gorm:"not null" json:"currency"`
	Status        string         `gorm:"index;not null" json:"status"`
	PaymentMethod string         `json:"payment_method"`
	PaymentToken  string         `gorm:"index" json:"payment_token"`
	PaymentDate   *time.Time     `json:"payment_date"`
	PaidAt        *time.Time     `gorm:"index" json:"paid_at"`
	NotifiedAt    *time.Time     `json:"notified_at"`
	CreatedBy     uint           `json:"created_by"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName table name override
func (PaymentRequest) TableName() string {
	return "payment_requests"
}
