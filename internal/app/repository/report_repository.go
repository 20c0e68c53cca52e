package repository

import (
	"time"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"gorm.io/gorm"
)

// ReportExportLimit 엑셀 내보내기 최대 행 수
const ReportExportLimit = 10000

type ReportRepository interface {
	Create(report *model.Report) error
	FindByID(id uint) (*model.Report, error)
	Exists(userID uint, targetType model.ReportTargetType, targetID uint) (bool, error)
	TargetExists(targetType model.ReportTargetType, targetID uint) (bool, error)
	UpdateReview(id uint, status model.ReportStatus, reviewNote *string, reviewerID uint) (bool, error)
	List(query model.ReportListQuery, page, limit int) ([]model.Report, int64, error)
	ListForExport(query model.ReportListQuery) ([]model.Report, error)
	FindRecent(limit int) ([]model.Report, error)
	Stats() (*model.ReportStats, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(report *model.Report) error {
	logger.Debug("Creating report in database", map[string]interface{}{
		"user_id":     report.UserID,
		"target_type": report.TargetType,
		"target_id":   report.TargetID,
	})

	if err := r.db.Omit("Reporter", "Reviewer").Create(report).Error; err != nil {
		logger.Error("Failed to create report", err, map[string]interface{}{
			"user_id":   report.UserID,
			"target_id": report.TargetID,
		})
		return err
	}
	return nil
}

func (r *reportRepository) FindByID(id uint) (*model.Report, error) {
	var report model.Report
	if err := r.db.Preload("Reporter").Preload("Reviewer").First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) Exists(userID uint, targetType model.ReportTargetType, targetID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Report{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}

func (r *reportRepository) TargetExists(targetType model.ReportTargetType, targetID uint) (bool, error) {
	var count int64
	var err error
	switch targetType {
	case model.ReportTargetPost:
		err = r.db.Model(&model.Post{}).Where("id = ?", targetID).Count(&count).Error
	case model.ReportTargetComment:
		err = r.db.Model(&model.Comment{}).Where("id = ?", targetID).Count(&count).Error
	}
	return count > 0, err
}

// UpdateReview 종료 상태가 아닌 경우에만 갱신. 실제로 변경되었는지 반환
func (r *reportRepository) UpdateReview(id uint, status model.ReportStatus, reviewNote *string, reviewerID uint) (bool, error) {
	updates := map[string]interface{}{
		"status":      status,
		"reviewed_by": reviewerID,
		"updated_at":  time.Now(),
	}
	if reviewNote != nil {
		updates["review_note"] = *reviewNote
	}

	result := r.db.Model(&model.Report{}).
		Where("id = ? AND status NOT IN ?", id, []model.ReportStatus{model.ReportStatusResolved, model.ReportStatusDismissed}).
		UpdateColumns(updates)
	if result.Error != nil {
		logger.Error("Failed to update report status", result.Error, map[string]interface{}{
			"report_id": id,
			"status":    status,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *reportRepository) filtered(query model.ReportListQuery) *gorm.DB {
	q := r.db.Model(&model.Report{})
	if query.TargetType != "" {
		q = q.Where("target_type = ?", query.TargetType)
	}
	if query.Reason != "" {
		q = q.Where("reason = ?", query.Reason)
	}
	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if query.UserID != nil {
		q = q.Where("user_id = ?", *query.UserID)
	}
	return q
}

func (r *reportRepository) List(query model.ReportListQuery, page, limit int) ([]model.Report, int64, error) {
	q := r.filtered(query)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.Error("Failed to count reports", err)
		return nil, 0, err
	}

	var reports []model.Report
	err := q.Preload("Reporter").Preload("Reviewer").
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(page, limit)).
		Find(&reports).Error
	return reports, total, err
}

func (r *reportRepository) ListForExport(query model.ReportListQuery) ([]model.Report, error) {
	var reports []model.Report
	err := r.filtered(query).Preload("Reporter").Preload("Reviewer").
		Order("created_at DESC").Order("id DESC").
		Limit(ReportExportLimit).
		Find(&reports).Error
	return reports, err
}

func (r *reportRepository) FindRecent(limit int) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.Preload("Reporter").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

type groupCount struct {
	GroupKey string
	Total    int64
}

func (r *reportRepository) countBy(column string) (map[string]int64, error) {
	var rows []groupCount
	err := r.db.Model(&model.Report{}).
		Select(column + " AS group_key, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.GroupKey] = row.Total
	}
	return out, nil
}

func (r *reportRepository) Stats() (*model.ReportStats, error) {
	byStatus, err := r.countBy("status")
	if err != nil {
		logger.Error("Failed to aggregate reports by status", err)
		return nil, err
	}
	byReason, err := r.countBy("reason")
	if err != nil {
		return nil, err
	}
	byType, err := r.countBy("target_type")
	if err != nil {
		return nil, err
	}

	stats := &model.ReportStats{
		Pending:   byStatus[string(model.ReportStatusPending)],
		Reviewing: byStatus[string(model.ReportStatusReviewing)],
		Resolved:  byStatus[string(model.ReportStatusResolved)],
		Dismissed: byStatus[string(model.ReportStatusDismissed)],
		ByReason:  byReason,
		ByType:    byType,
	}
	for _, n := range byStatus {
		stats.Total += n
	}
	return stats, nil
}
