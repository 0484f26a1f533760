package models

import (
	"time"

	"gorm.io/gorm"
)

// User back-office account (agents, admins, operator accounts)
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `json:"name"`
	Role         string         `gorm:"index;not null" json:"role"`
	Status       string         `gorm:"index;not null" json:"status"`
	OperatorID   *uint          `gorm:"index" json:"operator_id"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName table name override
func (User) TableName() string {
	return "users"
}
