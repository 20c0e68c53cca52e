package repository

import (
	"strings"

	"github.com/ikkim/wallhub-backend/pkg/util"
	"gorm.io/gorm"
)

// likePattern builds a case-insensitive substring pattern for LOWER(col) LIKE ?
func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// paginate applies limit/offset for already normalized page values
func paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(util.Offset(page, limit)).Limit(limit)
	}
}
