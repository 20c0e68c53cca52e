package service

import (
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	"github.com/ikkim/wallhub-backend/internal/authz"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"github.com/ikkim/wallhub-backend/pkg/util"
)

// UserService 관리자용 사용자 관리
type UserService interface {
	List(actor authz.Subject, query model.UserListQuery) ([]model.User, util.Pagination, error)
	GetByID(actor authz.Subject, id uint) (*model.User, error)
	Create(actor authz.Subject, req model.AdminCreateUserRequest) (*model.User, error)
	Update(actor authz.Subject, id uint, req model.AdminUpdateUserRequest) (*model.User, error)
	UpdateStatus(actor authz.Subject, id uint, status model.UserStatus) (*model.User, error)
	Delete(actor authz.Subject, id uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func manageUsers(actor authz.Subject) error {
	return authz.Authorize(actor, authz.ActionManageUsers, authz.Resource{Kind: authz.ResourceUser})
}

func (s *userService) List(actor authz.Subject, query model.UserListQuery) ([]model.User, util.Pagination, error) {
	if err := manageUsers(actor); err != nil {
		return nil, util.Pagination{}, err
	}

	page, limit := util.NormalizePage(query.Page, query.Limit)
	users, total, err := s.userRepo.List(query, page, limit)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return users, util.NewPagination(page, limit, total), nil
}

func (s *userService) GetByID(actor authz.Subject, id uint) (*model.User, error) {
	if err := manageUsers(actor); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
	}
	return user, nil
}

func (s *userService) Create(actor authz.Subject, req model.AdminCreateUserRequest) (*model.User, error) {
	if err := manageUsers(actor); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.NewValidation(apperrors.ValidationInvalidInput, "잘못된 권한입니다")
	}

	user, err := createUser(s.userRepo, req.RegisterRequest, role)
	if err != nil {
		return nil, err
	}

	logger.Info("User created by admin", map[string]interface{}{
		"user_id":  user.ID,
		"admin_id": actor.UserID,
		"role":     role,
	})
	return user, nil
}

func (s *userService) Update(actor authz.Subject, id uint, req model.AdminUpdateUserRequest) (*model.User, error) {
	user, err := s.GetByID(actor, id)
	if err != nil {
		return nil, err
	}

	if err := applyProfileUpdate(s.userRepo, user, req.UpdateProfileRequest); err != nil {
		return nil, err
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, apperrors.NewValidation(apperrors.ValidationInvalidInput, "잘못된 권한입니다")
		}
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, conflictOr(err, apperrors.AuthUsernameExists, "이미 사용 중인 사용자명 또는 이메일입니다")
	}
	return user, nil
}

func (s *userService) UpdateStatus(actor authz.Subject, id uint, status model.UserStatus) (*model.User, error) {
	if status != model.UserStatusActive && status != model.UserStatusDisabled {
		return nil, apperrors.NewValidation(apperrors.ValidationInvalidInput, "잘못된 상태 값입니다")
	}
	if id == actor.UserID && status == model.UserStatusDisabled {
		return nil, apperrors.NewForbidden(apperrors.AuthzForbidden, "자기 자신을 비활성화할 수 없습니다")
	}

	user, err := s.GetByID(actor, id)
	if err != nil {
		return nil, err
	}
	user.Status = status
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User status changed", map[string]interface{}{
		"user_id":  id,
		"status":   status,
		"admin_id": actor.UserID,
	})
	return user, nil
}

// Delete 소프트 삭제. 작성한 배경화면/게시글은 남김
func (s *userService) Delete(actor authz.Subject, id uint) error {
	if err := manageUsers(actor); err != nil {
		return err
	}
	if id == actor.UserID {
		return apperrors.NewForbidden(apperrors.AuthzForbidden, "자기 자신은 삭제할 수 없습니다")
	}

	if err := s.userRepo.Delete(id); err != nil {
		return notFoundOr(err, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
	}

	logger.Info("User deleted", map[string]interface{}{
		"user_id":  id,
		"admin_id": actor.UserID,
	})
	return nil
}
