package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/service"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService service.ReportService
}

func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// GetReasons 신고 사유 목록
// GET /api/v1/reports/reasons
func (ctrl *ReportController) GetReasons(c *gin.Context) {
	respondOK(c, ctrl.reportService.GetReasons())
}

// CreateReport POST /api/v1/reports
func (ctrl *ReportController) CreateReport(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req model.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "create report")
		return
	}

	report, err := ctrl.reportService.Create(userID, req)
	if err != nil {
		respondServiceError(c, err, "create report", map[string]interface{}{
			"user_id":     userID,
			"target_type": req.TargetType,
			"target_id":   req.TargetID,
		})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Report submitted", map[string]interface{}{
		"report_id":   report.ID,
		"target_type": report.TargetType,
		"target_id":   report.TargetID,
	})
	respondCreated(c, "신고가 접수되었습니다", report)
}

// CanReport 신고 가능 여부
// GET /api/v1/reports/check?target_type=post&target_id=1
func (ctrl *ReportController) CanReport(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	targetID, err := strconv.ParseUint(c.Query("target_id"), 10, 32)
	if err != nil || targetID == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 대상 ID입니다")
		return
	}

	result, err := ctrl.reportService.CanReport(userID, model.ReportTargetType(c.Query("target_type")), uint(targetID))
	if err != nil {
		respondServiceError(c, err, "check report", nil)
		return
	}
	respondOK(c, result)
}

// GetMyReports GET /api/v1/reports/me
func (ctrl *ReportController) GetMyReports(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	page, limit := pageParams(c)

	reports, pagination, err := ctrl.reportService.GetUserReports(userID, page, limit)
	if err != nil {
		respondServiceError(c, err, "list my reports", map[string]interface{}{"user_id": userID})
		return
	}
	respondList(c, reports, pagination)
}

// GetReport 신고자 본인 또는 관리자
// GET /api/v1/reports/:id
func (ctrl *ReportController) GetReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	report, err := ctrl.reportService.GetByID(subject, id)
	if err != nil {
		respondServiceError(c, err, "get report", map[string]interface{}{"report_id": id})
		return
	}
	respondOK(c, report)
}

// ListReports GET /api/v1/admin/reports
func (ctrl *ReportController) ListReports(c *gin.Context) {
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var query model.ReportListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, err, "list reports")
		return
	}

	reports, pagination, err := ctrl.reportService.List(subject, query)
	if err != nil {
		respondServiceError(c, err, "list reports", nil)
		return
	}
	respondList(c, reports, pagination)
}

// GetReportStats GET /api/v1/admin/reports/stats
func (ctrl *ReportController) GetReportStats(c *gin.Context) {
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	stats, err := ctrl.reportService.GetStats(subject)
	if err != nil {
		respondServiceError(c, err, "report stats", nil)
		return
	}
	respondOK(c, stats)
}

// UpdateReportStatus status 생략 시 review_note 유무로 결정
// PATCH /api/v1/admin/reports/:id
func (ctrl *ReportController) UpdateReportStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var req model.UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "update report")
		return
	}

	report, err := ctrl.reportService.UpdateStatus(subject, id, req)
	if err != nil {
		respondServiceError(c, err, "update report", map[string]interface{}{"report_id": id})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Report reviewed", map[string]interface{}{
		"report_id":   id,
		"status":      report.Status,
		"reviewer_id": subject.UserID,
	})
	respondMessage(c, "신고가 처리되었습니다", report)
}

// ExportReports 필터 조건의 신고 목록을 엑셀로 내려받기
// GET /api/v1/admin/reports/export
func (ctrl *ReportController) ExportReports(c *gin.Context) {
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var query model.ReportListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, err, "export reports")
		return
	}

	data, err := ctrl.reportService.Export(subject, query)
	if err != nil {
		respondServiceError(c, err, "export reports", nil)
		return
	}

	filename := fmt.Sprintf("reports_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
