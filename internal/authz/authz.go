// Package authz decides whether a subject may perform an action on a resource.
package authz

import (
	"github.com/ikkim/wallhub-backend/internal/app/model"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
)

type Action string

const (
	ActionUpdate        Action = "update"
	ActionEdit          Action = "edit" // 본문 수정. 관리자도 작성자가 아니면 불가
	ActionDelete        Action = "delete"
	ActionFeature       Action = "feature" // 추천/숨김 등 관리 필드 변경
	ActionReviewReport  Action = "review_report"
	ActionManageTags    Action = "manage_tags"
	ActionManageUsers   Action = "manage_users"
	ActionViewDashboard Action = "view_dashboard"
)

type ResourceKind string

const (
	ResourceWallpaper ResourceKind = "wallpaper"
	ResourcePost      ResourceKind = "post"
	ResourceComment   ResourceKind = "comment"
	ResourceReport    ResourceKind = "report"
	ResourceTag       ResourceKind = "tag"
	ResourceUser      ResourceKind = "user"
	ResourceSystem    ResourceKind = "system"
)

// Subject 요청 주체
type Subject struct {
	UserID uint
	Role   model.UserRole
}

func (s Subject) IsAdmin() bool {
	return s.Role == model.RoleAdmin
}

// Resource 대상. OwnerID가 0이면 소유자 없음
type Resource struct {
	Kind    ResourceKind
	OwnerID uint
}

func Owned(kind ResourceKind, ownerID uint) Resource {
	return Resource{Kind: kind, OwnerID: ownerID}
}

var adminOnly = map[Action]bool{
	ActionFeature:       true,
	ActionReviewReport:  true,
	ActionManageTags:    true,
	ActionManageUsers:   true,
	ActionViewDashboard: true,
}

// Authorize returns nil when allowed, otherwise a Forbidden AppError
func Authorize(subject Subject, action Action, resource Resource) error {
	if action == ActionEdit {
		if subject.UserID != 0 && resource.OwnerID == subject.UserID {
			return nil
		}
		return apperrors.NewForbidden(apperrors.AuthzOwnerOnly, "작성자만 수정할 수 있습니다")
	}
	if subject.IsAdmin() {
		return nil
	}
	if adminOnly[action] {
		return apperrors.NewForbidden(apperrors.AuthzAdminOnly, "관리자만 수행할 수 있습니다")
	}

	switch action {
	case ActionUpdate, ActionDelete:
		if subject.UserID != 0 && resource.OwnerID == subject.UserID {
			return nil
		}
		return apperrors.NewForbidden(apperrors.AuthzOwnerOnly, "작성자만 수정하거나 삭제할 수 있습니다")
	}

	return apperrors.NewForbidden(apperrors.AuthzForbidden, "접근 권한이 없습니다")
}
