package models

import "time"

// AuditLog append-only trail of payment state changes
type AuditLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ActorID    string    `gorm:"index" json:"actor_id"`
	ActorType  string    `gorm:"index;not null" json:"actor_type"`
	Source     string    `json:"source"`
	Action     string    `gorm:"index;not null" json:"action"`
	Resource   string    `gorm:"not null" json:"resource"`
	ResourceID uint      `gorm:"index" json:"resource_id"`
	Before     JSON      `gorm:"type:json" json:"before"`
	After      JSON      `gorm:"type:json" json:"after"`
	ClientIP   string    `json:"client_ip"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName table name override
func (AuditLog) TableName() string {
	return "audit_logs"
}
