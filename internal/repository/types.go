package repository

import "time"

// PaymentListFilter cursor filter for payment listings
type PaymentListFilter struct {
	Limit        int
	StartAfterID uint
	Status       string
	OperatorID   uint
}

// OperatorListFilter filter for economic operator listings
type OperatorListFilter struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

// AuditLogListFilter filter for audit trail listings
type AuditLogListFilter struct {
	Page       int
	PageSize   int
	Action     string
	Source     string
	Resource   string
	ResourceID uint
	From       *time.Time
	To         *time.Time
}
