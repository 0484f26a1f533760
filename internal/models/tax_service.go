package models

import (
	"time"

	"gorm.io/gorm"
)

// TaxService a municipal tax or fee item referenced by request lines
type TaxService struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	BaseAmount  Money          `gorm:"type:decimal(20,2);not null" json:"base_amount"`
	Currency    string         `gorm:"not null" json:"currency"`
	Category    string         `gorm:"index" json:"category"`
	IsActive    bool           `gorm:"index;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName table name override
func (TaxService) TableName() string {
	return "tax_services"
}
