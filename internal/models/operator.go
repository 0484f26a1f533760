package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// EconomicOperator a registered taxpayer (managed by an external back office)
type EconomicOperator struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	Status             string         `gorm:"index;not null" json:"status"`
	FirstName          string         `json:"first_name"`
	LastName           string         `json:"last_name"`
	Phone              string         `gorm:"index" json:"phone"`
	Email              string         `gorm:"index" json:"email"`
	BusinessName       string         `json:"business_name"`
	BusinessType       string         `json:"business_type"`
	Address            string         `gorm:"type:text" json:"address"`
	RegistrationNumber string         `gorm:"index" json:"registration_number"`
	AssignedServices   StringArray    `gorm:"type:json" json:"assigned_services"`
	ApprovedAt         *time.Time     `json:"approved_at"`
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName table name override
func (EconomicOperator) TableName() string {
	return "economic_operators"
}

// DisplayName contact name shown on receipts and gateway requests
func (o *EconomicOperator) DisplayName() string {
	if o == nil {
		return ""
	}
	if name := strings.TrimSpace(o.BusinessName); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(o.FirstName) + " " + strings.TrimSpace(o.LastName))
}
