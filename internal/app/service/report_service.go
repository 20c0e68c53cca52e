package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	"github.com/ikkim/wallhub-backend/internal/authz"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"github.com/ikkim/wallhub-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

const reportSheetName = "Reports"

var reportReasonLabels = map[model.ReportReason][2]string{
	model.ReasonSpam:           {"스팸", "광고, 홍보, 도배성 내용"},
	model.ReasonInappropriate:  {"부적절한 내용", "음란물 또는 불쾌감을 주는 내용"},
	model.ReasonHarassment:     {"괴롭힘", "특정인을 향한 비방, 모욕, 괴롭힘"},
	model.ReasonViolence:       {"폭력", "폭력적이거나 위협적인 내용"},
	model.ReasonCopyright:      {"저작권 침해", "타인의 저작물을 무단으로 사용"},
	model.ReasonMisinformation: {"허위 정보", "사실이 아닌 정보 유포"},
	model.ReasonOther:          {"기타", "위에 해당하지 않는 사유"},
}

// ModerationNotifier 신고 생성/처리 이벤트 구독자 (관리자 WebSocket 피드)
type ModerationNotifier interface {
	Notify(event model.ModerationEvent)
}

type ReportService interface {
	Create(userID uint, req model.CreateReportRequest) (*model.Report, error)
	GetByID(actor authz.Subject, id uint) (*model.Report, error)
	List(actor authz.Subject, query model.ReportListQuery) ([]model.Report, util.Pagination, error)
	GetUserReports(userID uint, page, limit int) ([]model.Report, util.Pagination, error)
	UpdateStatus(actor authz.Subject, id uint, req model.UpdateReportStatusRequest) (*model.Report, error)
	GetStats(actor authz.Subject) (*model.ReportStats, error)
	CanReport(userID uint, targetType model.ReportTargetType, targetID uint) (*model.CanReportResult, error)
	GetReasons() []model.ReportReasonOption
	Export(actor authz.Subject, query model.ReportListQuery) ([]byte, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	notifier   ModerationNotifier
}

// NewReportService notifier는 nil 허용
func NewReportService(reportRepo repository.ReportRepository, notifier ModerationNotifier) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		notifier:   notifier,
	}
}

func reportNotFound(err error) error {
	return notFoundOr(err, apperrors.ReportNotFound, "신고 내역을 찾을 수 없습니다")
}

func reviewReports(actor authz.Subject) error {
	return authz.Authorize(actor, authz.ActionReviewReport, authz.Resource{Kind: authz.ResourceReport})
}

func (s *reportService) notify(eventType string, report *model.Report) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(model.ModerationEvent{
		Type:       eventType,
		Report:     report,
		OccurredAt: time.Now(),
	})
}

func validateReportTarget(targetType model.ReportTargetType, reason model.ReportReason) error {
	if !targetType.Valid() {
		return apperrors.NewValidation(apperrors.ReportInvalidTarget, "게시글 또는 댓글만 신고할 수 있습니다")
	}
	if !reason.Valid() {
		return apperrors.NewValidation(apperrors.ReportInvalidReason, "잘못된 신고 사유입니다")
	}
	return nil
}

// Create 대상 존재 확인 → 중복 확인. 동시 요청은 유니크 인덱스가 막음
func (s *reportService) Create(userID uint, req model.CreateReportRequest) (*model.Report, error) {
	if err := validateReportTarget(req.TargetType, req.Reason); err != nil {
		return nil, err
	}

	exists, err := s.reportRepo.TargetExists(req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFound(apperrors.ResourceNotFound, "신고 대상을 찾을 수 없습니다")
	}

	duplicated, err := s.reportRepo.Exists(userID, req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}
	if duplicated {
		return nil, apperrors.NewConflict(apperrors.ReportAlreadyExists, "이미 신고한 대상입니다")
	}

	report := &model.Report{
		UserID:      userID,
		TargetType:  req.TargetType,
		TargetID:    req.TargetID,
		Reason:      req.Reason,
		Description: strings.TrimSpace(req.Description),
		Status:      model.ReportStatusPending,
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, conflictOr(err, apperrors.ReportAlreadyExists, "이미 신고한 대상입니다")
	}

	logger.Info("Report created", map[string]interface{}{
		"report_id":   report.ID,
		"target_type": report.TargetType,
		"target_id":   report.TargetID,
		"reason":      report.Reason,
	})
	s.notify(model.ModerationReportCreated, report)
	return report, nil
}

// GetByID 관리자 또는 신고자 본인
func (s *reportService) GetByID(actor authz.Subject, id uint) (*model.Report, error) {
	report, err := s.reportRepo.FindByID(id)
	if err != nil {
		return nil, reportNotFound(err)
	}
	if report.UserID != actor.UserID {
		if err := reviewReports(actor); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (s *reportService) List(actor authz.Subject, query model.ReportListQuery) ([]model.Report, util.Pagination, error) {
	if err := reviewReports(actor); err != nil {
		return nil, util.Pagination{}, err
	}
	page, limit := util.NormalizePage(query.Page, query.Limit)
	reports, total, err := s.reportRepo.List(query, page, limit)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return reports, util.NewPagination(page, limit, total), nil
}

func (s *reportService) GetUserReports(userID uint, page, limit int) ([]model.Report, util.Pagination, error) {
	page, limit = util.NormalizePage(page, limit)
	reports, total, err := s.reportRepo.List(model.ReportListQuery{UserID: &userID}, page, limit)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return reports, util.NewPagination(page, limit, total), nil
}

// nextReportStatus 상태 미지정 시 처리 메모가 있으면 resolved, 없으면 reviewing
func nextReportStatus(req model.UpdateReportStatusRequest) (model.ReportStatus, error) {
	if req.Status == nil || *req.Status == "" {
		if req.ReviewNote != nil && strings.TrimSpace(*req.ReviewNote) != "" {
			return model.ReportStatusResolved, nil
		}
		return model.ReportStatusReviewing, nil
	}

	status := *req.Status
	if !status.Valid() {
		return "", apperrors.NewValidation(apperrors.ValidationInvalidInput, "잘못된 신고 상태입니다")
	}
	if status == model.ReportStatusPending {
		return "", apperrors.NewValidation(apperrors.ReportInvalidTransition, "대기 상태로 되돌릴 수 없습니다")
	}
	return status, nil
}

func (s *reportService) UpdateStatus(actor authz.Subject, id uint, req model.UpdateReportStatusRequest) (*model.Report, error) {
	if err := reviewReports(actor); err != nil {
		return nil, err
	}

	report, err := s.reportRepo.FindByID(id)
	if err != nil {
		return nil, reportNotFound(err)
	}
	if report.Status.IsTerminal() {
		return nil, apperrors.NewForbidden(apperrors.ReportAlreadyClosed, "이미 처리가 완료된 신고입니다")
	}

	status, err := nextReportStatus(req)
	if err != nil {
		return nil, err
	}

	updated, err := s.reportRepo.UpdateReview(id, status, req.ReviewNote, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !updated {
		// 조회 이후 다른 관리자가 먼저 종료 처리함
		return nil, apperrors.NewForbidden(apperrors.ReportAlreadyClosed, "이미 처리가 완료된 신고입니다")
	}

	report, err = s.reportRepo.FindByID(id)
	if err != nil {
		return nil, reportNotFound(err)
	}

	logger.Info("Report reviewed", map[string]interface{}{
		"report_id":   id,
		"status":      status,
		"reviewed_by": actor.UserID,
	})
	s.notify(model.ModerationReportUpdated, report)
	return report, nil
}

func (s *reportService) GetStats(actor authz.Subject) (*model.ReportStats, error) {
	if err := reviewReports(actor); err != nil {
		return nil, err
	}
	return s.reportRepo.Stats()
}

func (s *reportService) CanReport(userID uint, targetType model.ReportTargetType, targetID uint) (*model.CanReportResult, error) {
	if !targetType.Valid() {
		return &model.CanReportResult{CanReport: false, Reason: "invalid_target"}, nil
	}
	exists, err := s.reportRepo.TargetExists(targetType, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &model.CanReportResult{CanReport: false, Reason: "target_not_found"}, nil
	}
	duplicated, err := s.reportRepo.Exists(userID, targetType, targetID)
	if err != nil {
		return nil, err
	}
	if duplicated {
		return &model.CanReportResult{CanReport: false, Reason: "already_reported"}, nil
	}
	return &model.CanReportResult{CanReport: true}, nil
}

func (s *reportService) GetReasons() []model.ReportReasonOption {
	options := make([]model.ReportReasonOption, 0, len(model.ReportReasons))
	for _, reason := range model.ReportReasons {
		label := reportReasonLabels[reason]
		options = append(options, model.ReportReasonOption{
			Value:       reason,
			Label:       label[0],
			Description: label[1],
		})
	}
	return options
}

// Export 필터 조건의 신고 목록을 xlsx로 생성
func (s *reportService) Export(actor authz.Subject, query model.ReportListQuery) ([]byte, error) {
	if err := reviewReports(actor); err != nil {
		return nil, err
	}

	reports, err := s.reportRepo.ListForExport(query)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := []interface{}{"ID", "대상 유형", "대상 ID", "사유", "설명", "상태", "신고자", "처리자", "처리 메모", "신고일시"}
	if err := f.SetSheetRow(reportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range reports {
		reporter, reviewer, note := "", "", ""
		if r.Reporter != nil {
			reporter = r.Reporter.Username
		}
		if r.Reviewer != nil {
			reviewer = r.Reviewer.Username
		}
		if r.ReviewNote != nil {
			note = *r.ReviewNote
		}

		row := []interface{}{
			r.ID, string(r.TargetType), r.TargetID, reportReasonLabels[r.Reason][0], r.Description,
			string(r.Status), reporter, reviewer, note, r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(reportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Reports exported", map[string]interface{}{
		"count":    len(reports),
		"admin_id": actor.UserID,
	})
	return buf.Bytes(), nil
}
