package model

import "time"

type ReportTargetType string

const (
	ReportTargetPost    ReportTargetType = "post"
	ReportTargetComment ReportTargetType = "comment"
)

func (t ReportTargetType) Valid() bool {
	return t == ReportTargetPost || t == ReportTargetComment
}

type ReportReason string

const (
	ReasonSpam           ReportReason = "spam"
	ReasonInappropriate  ReportReason = "inappropriate"
	ReasonHarassment     ReportReason = "harassment"
	ReasonViolence       ReportReason = "violence"
	ReasonCopyright      ReportReason = "copyright"
	ReasonMisinformation ReportReason = "misinformation"
	ReasonOther          ReportReason = "other"
)

var ReportReasons = []ReportReason{
	ReasonSpam, ReasonInappropriate, ReasonHarassment, ReasonViolence,
	ReasonCopyright, ReasonMisinformation, ReasonOther,
}

func (r ReportReason) Valid() bool {
	for _, reason := range ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// ReportStatus pending → reviewing|resolved|dismissed, reviewing → resolved|dismissed
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewing ReportStatus = "reviewing"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusReviewing, ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

// IsTerminal resolved/dismissed 이후에는 변경 불가
func (s ReportStatus) IsTerminal() bool {
	return s == ReportStatusResolved || s == ReportStatusDismissed
}

// Report 게시글/댓글 신고. (user_id, target_type, target_id) 유일
type Report struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	UserID      uint             `gorm:"not null;index:idx_report_dedup,unique" json:"user_id"`
	TargetType  ReportTargetType `gorm:"type:varchar(20);not null;index:idx_report_dedup,unique;index:idx_report_target" json:"target_type"`
	TargetID    uint             `gorm:"not null;index:idx_report_dedup,unique;index:idx_report_target" json:"target_id"`
	Reason      ReportReason     `gorm:"type:varchar(30);not null;index" json:"reason"`
	Description string           `gorm:"type:varchar(500)" json:"description"`
	Status      ReportStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedBy  *uint            `json:"reviewed_by,omitempty"`
	ReviewNote  *string          `gorm:"type:varchar(500)" json:"review_note,omitempty"`
	CreatedAt   time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Reporter *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"reporter,omitempty"`
	Reviewer *User `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

func (Report) TableName() string {
	return "reports"
}

type CreateReportRequest struct {
	TargetType  ReportTargetType `json:"target_type" binding:"required"`
	TargetID    uint             `json:"target_id" binding:"required,min=1"`
	Reason      ReportReason     `json:"reason" binding:"required"`
	Description string           `json:"description" binding:"max=500"`
}

type UpdateReportStatusRequest struct {
	Status     *ReportStatus `json:"status,omitempty"`
	ReviewNote *string       `json:"review_note,omitempty" binding:"omitempty,max=500"`
}

type ReportListQuery struct {
	Page       int              `form:"page"`
	Limit      int              `form:"limit"`
	TargetType ReportTargetType `form:"target_type"`
	Reason     ReportReason     `form:"reason"`
	Status     ReportStatus     `form:"status"`
	UserID     *uint            `form:"user_id"`
}

type ReportStats struct {
	Total     int64            `json:"total"`
	Pending   int64            `json:"pending"`
	Reviewing int64            `json:"reviewing"`
	Resolved  int64            `json:"resolved"`
	Dismissed int64            `json:"dismissed"`
	ByReason  map[string]int64 `json:"by_reason"`
	ByType    map[string]int64 `json:"by_type"`
}

type ReportReasonOption struct {
	Value       ReportReason `json:"value"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
}

type CanReportResult struct {
	CanReport bool   `json:"can_report"`
	Reason    string `json:"reason,omitempty"`
}

const (
	ModerationReportCreated = "report.created"
	ModerationReportUpdated = "report.updated"
)

// ModerationEvent 관리자 실시간 피드로 전달되는 신고 이벤트
type ModerationEvent struct {
	Type       string    `json:"type"`
	Report     *Report   `json:"report"`
	OccurredAt time.Time `json:"occurred_at"`
}
