package scheduler

import (
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// limiterSweepSpec 유휴 IP 버킷 정리 주기
const limiterSweepSpec = "@every 5m"

// ViewHistoryCleaner 보존 기간이 지난 열람 기록 삭제
type ViewHistoryCleaner interface {
	CleanupExpired(retentionDays int) (int64, error)
}

// IdleSweeper 요청이 끊긴 클라이언트 상태 정리 (rate limiter)
type IdleSweeper interface {
	Cleanup() int
}

// CleanupScheduler 열람 기록 보존 기간 관리와 rate limiter 정리
type CleanupScheduler struct {
	cron          *cron.Cron
	viewHistory   ViewHistoryCleaner
	sweeper       IdleSweeper
	spec          string
	retentionDays int
}

// NewCleanupScheduler sweeper가 nil이면 limiter 정리 작업은 등록하지 않음
func NewCleanupScheduler(viewHistory ViewHistoryCleaner, sweeper IdleSweeper, spec string, retentionDays int) *CleanupScheduler {
	return &CleanupScheduler{
		cron:          cron.New(),
		viewHistory:   viewHistory,
		sweeper:       sweeper,
		spec:          spec,
		retentionDays: retentionDays,
	}
}

// Start 스케줄러 시작
func (s *CleanupScheduler) Start() error {
	// 기본값 "0 0 * * *" = 매일 자정
	if _, err := s.cron.AddFunc(s.spec, s.CleanupViewHistory); err != nil {
		logger.Error("Failed to add cron job for view history cleanup", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	if s.sweeper != nil {
		if _, err := s.cron.AddFunc(limiterSweepSpec, s.sweepLimiter); err != nil {
			logger.Error("Failed to add cron job for rate limiter cleanup", err)
			return err
		}
	}

	s.cron.Start()
	logger.Info("Cleanup scheduler started", map[string]interface{}{
		"spec":           s.spec,
		"retention_days": s.retentionDays,
	})

	return nil
}

// CleanupViewHistory 한 번 실행. cron 작업이자 CLI에서 직접 호출
func (s *CleanupScheduler) CleanupViewHistory() {
	logger.Info("Starting scheduled view history cleanup", nil)

	removed, err := s.viewHistory.CleanupExpired(s.retentionDays)
	if err != nil {
		logger.Error("Failed to clean up view history", err)
		return
	}

	logger.Info("View history cleanup finished", map[string]interface{}{
		"removed": removed,
	})
}

func (s *CleanupScheduler) sweepLimiter() {
	if removed := s.sweeper.Cleanup(); removed > 0 {
		logger.Debug("Idle rate limiter buckets removed", map[string]interface{}{
			"removed": removed,
		})
	}
}

// Stop 스케줄러 중지. 실행 중인 작업이 끝날 때까지 대기
func (s *CleanupScheduler) Stop() {
	logger.Info("Stopping cleanup scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Cleanup scheduler stopped", nil)
}
