package service

import (
	"time"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"github.com/ikkim/wallhub-backend/pkg/util"
)

type ViewHistoryService interface {
	List(userID uint, page, limit int) ([]model.ViewHistory, util.Pagination, error)
	Clear(userID uint) (int64, error)
	CleanupExpired(retentionDays int) (int64, error)
}

type viewHistoryService struct {
	viewRepo repository.ViewHistoryRepository
}

func NewViewHistoryService(viewRepo repository.ViewHistoryRepository) ViewHistoryService {
	return &viewHistoryService{viewRepo: viewRepo}
}

func (s *viewHistoryService) List(userID uint, page, limit int) ([]model.ViewHistory, util.Pagination, error) {
	page, limit = util.NormalizePage(page, limit)
	histories, total, err := s.viewRepo.FindByUser(userID, page, limit)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return histories, util.NewPagination(page, limit, total), nil
}

func (s *viewHistoryService) Clear(userID uint) (int64, error) {
	return s.viewRepo.ClearByUser(userID)
}

// CleanupExpired retentionDays보다 오래된 조회 기록 삭제 (스케줄러에서 호출)
func (s *viewHistoryService) CleanupExpired(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	removed, err := s.viewRepo.DeleteBefore(cutoff)
	if err != nil {
		logger.Error("Failed to clean up view history", err, map[string]interface{}{
			"retention_days": retentionDays,
		})
		return 0, err
	}

	logger.Info("View history cleaned up", map[string]interface{}{
		"removed": removed,
		"cutoff":  cutoff.Format(time.RFC3339),
	})
	return removed, nil
}
