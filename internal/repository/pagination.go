package repository

import "gorm.io/gorm"

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// applyPagination applies page/pageSize, normalizing invalid values
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return query.Limit(pageSize).Offset(offset)
}

// normalizeListLimit clamps a cursor page size to [1, maxListLimit]
func normalizeListLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
