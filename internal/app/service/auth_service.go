package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"github.com/ikkim/wallhub-backend/pkg/util"
)

const generatedUsernameLength = 8

// TokenBlacklist 로그아웃된 액세스 토큰 저장소 (Redis)
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, token string, expiry time.Duration) error
}

type AuthService interface {
	Register(req model.RegisterRequest) (*model.User, *util.TokenPair, error)
	Login(login, password string) (*model.User, *util.TokenPair, error)
	Refresh(refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, req model.UpdateProfileRequest) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	blacklist     TokenBlacklist
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService blacklist가 nil이면 로그아웃은 클라이언트 측 토큰 삭제만으로 처리
func NewAuthService(
	userRepo repository.UserRepository,
	blacklist TokenBlacklist,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		blacklist:     blacklist,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Username,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}

func (s *authService) Register(req model.RegisterRequest) (*model.User, *util.TokenPair, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"username": req.Username,
	})

	user, err := createUser(s.userRepo, req, model.RoleUser)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, tokens, nil
}

// createUser 회원가입과 관리자 생성이 공유하는 검증/저장 로직
func createUser(userRepo repository.UserRepository, req model.RegisterRequest, role model.UserRole) (*model.User, error) {
	if err := util.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewValidation(apperrors.ValidationInvalidInput, "비밀번호는 6~20자여야 합니다")
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		generated, err := uniqueUsername(userRepo)
		if err != nil {
			return nil, err
		}
		username = generated
	} else if _, err := userRepo.FindByUsername(username); err == nil {
		return nil, apperrors.NewConflict(apperrors.AuthUsernameExists, "이미 사용 중인 사용자명입니다")
	} else if !isNotFound(err) {
		return nil, err
	}

	var email *string
	if e := strings.TrimSpace(req.Email); e != "" {
		if _, err := userRepo.FindByEmail(e); err == nil {
			return nil, apperrors.NewConflict(apperrors.AuthEmailAlreadyExists, "이미 사용 중인 이메일입니다")
		} else if !isNotFound(err) {
			return nil, err
		}
		email = &e
	}

	hashedPassword, err := util.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	avatar := req.AvatarURL
	if avatar == "" {
		avatar = model.DefaultAvatarURL
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		AvatarURL:    avatar,
		Role:         role,
		Status:       model.UserStatusActive,
	}
	if err := userRepo.Create(user); err != nil {
		return nil, conflictOr(err, apperrors.AuthUsernameExists, "이미 사용 중인 사용자명 또는 이메일입니다")
	}
	return user, nil
}

func uniqueUsername(userRepo repository.UserRepository) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		candidate, err := util.GenerateUsername(generatedUsernameLength)
		if err != nil {
			return "", err
		}
		if _, err := userRepo.FindByUsername(candidate); isNotFound(err) {
			return candidate, nil
		} else if err != nil {
			return "", err
		}
	}
	return "", errors.New("failed to generate a unique username")
}

func (s *authService) Login(login, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"login": login,
	})

	user, err := s.userRepo.FindByLogin(strings.TrimSpace(login))
	if err != nil {
		if isNotFound(err) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"login": login,
			})
			return nil, nil, apperrors.NewUnauthorized(apperrors.AuthInvalidCredentials, "아이디 또는 비밀번호가 올바르지 않습니다")
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, apperrors.NewUnauthorized(apperrors.AuthInvalidCredentials, "아이디 또는 비밀번호가 올바르지 않습니다")
	}

	if !user.IsActive() {
		logger.Warn("Login failed: account disabled", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, apperrors.NewForbidden(apperrors.AuthAccountDisabled, "비활성화된 계정입니다")
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, tokens, nil
}

func (s *authService) Refresh(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, apperrors.NewUnauthorized(apperrors.AuthTokenExpired, "토큰이 만료되었습니다")
		}
		return nil, apperrors.NewUnauthorized(apperrors.AuthTokenInvalid, "유효하지 않은 토큰입니다")
	}
	if claims.TokenType != util.TokenTypeRefresh {
		return nil, apperrors.NewUnauthorized(apperrors.AuthTokenInvalid, "리프레시 토큰이 아닙니다")
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewUnauthorized(apperrors.AuthTokenInvalid, "사용자를 찾을 수 없습니다")
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, apperrors.NewForbidden(apperrors.AuthAccountDisabled, "비활성화된 계정입니다")
	}

	return s.issueTokens(user)
}

// Logout 남은 유효 기간 동안 액세스 토큰을 블랙리스트에 등록
func (s *authService) Logout(ctx context.Context, accessToken string) error {
	if s.blacklist == nil || accessToken == "" {
		return nil
	}

	ttl := s.accessExpiry
	if claims, err := util.ValidateToken(accessToken, s.jwtSecret); err == nil && claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}

	return s.blacklist.BlacklistToken(ctx, accessToken, ttl)
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if err := applyProfileUpdate(s.userRepo, user, req); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, conflictOr(err, apperrors.AuthUsernameExists, "이미 사용 중인 사용자명 또는 이메일입니다")
	}

	logger.Info("Profile updated", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}

func applyProfileUpdate(userRepo repository.UserRepository, user *model.User, req model.UpdateProfileRequest) error {
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return apperrors.NewValidation(apperrors.ValidationRequired, "사용자명을 입력해주세요")
		}
		if username != user.Username {
			if existing, err := userRepo.FindByUsername(username); err == nil && existing.ID != user.ID {
				return apperrors.NewConflict(apperrors.AuthUsernameExists, "이미 사용 중인 사용자명입니다")
			} else if err != nil && !isNotFound(err) {
				return err
			}
			user.Username = username
		}
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			user.Email = nil
		} else {
			if existing, err := userRepo.FindByEmail(email); err == nil && existing.ID != user.ID {
				return apperrors.NewConflict(apperrors.AuthEmailAlreadyExists, "이미 사용 중인 이메일입니다")
			} else if err != nil && !isNotFound(err) {
				return err
			}
			user.Email = &email
		}
	}

	if req.Password != nil {
		if err := util.ValidatePassword(*req.Password); err != nil {
			return apperrors.NewValidation(apperrors.ValidationInvalidInput, "비밀번호는 6~20자여야 합니다")
		}
		hashed, err := util.HashPassword(*req.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hashed
	}

	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	return nil
}
