package service

import (
	"errors"

	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"gorm.io/gorm"
)

// notFoundOr gorm.ErrRecordNotFound를 도메인 NotFound 에러로 변환
func notFoundOr(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFound(code, message)
	}
	return err
}

// conflictOr 유니크 제약 위반을 Conflict 에러로 변환
func conflictOr(err error, code, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.NewConflict(code, message)
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
