package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // 사용자 권한 타입

const (
	RoleUser  UserRole = "user"  // 일반 사용자 권한
	RoleAdmin UserRole = "admin" // 관리자 권한
)

func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type UserStatus int

const (
	UserStatusDisabled UserStatus = 0
	UserStatusActive   UserStatus = 1
)

const DefaultAvatarURL = "/avatars/default.png"

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                  // 사용자 ID
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"` // 사용자명 (미입력 시 자동 생성)
	Email        *string        `gorm:"type:varchar(100);uniqueIndex" json:"email,omitempty"`  // 이메일 (선택)
	PasswordHash string         `gorm:"not null" json:"-"`                                     // 비밀번호 해시
	AvatarURL    string         `gorm:"type:varchar(500)" json:"avatar_url"`                   // 프로필 이미지 URL
	Bio          string         `gorm:"type:varchar(500)" json:"bio"`                          // 소개
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`           // 권한
	Status       UserStatus     `gorm:"default:1;index" json:"status"`                         // 1: 활성, 0: 비활성
	CreatedAt    time.Time      `json:"created_at"`                                            // 생성 시각
	UpdatedAt    time.Time      `json:"updated_at"`                                            // 수정 시각
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                        // 삭제 시각(소프트 삭제)
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// RegisterRequest 회원가입 요청
type RegisterRequest struct {
	Username  string `json:"username" binding:"omitempty,min=1,max=50"`
	Email     string `json:"email" binding:"omitempty,email"`
	Password  string `json:"password" binding:"required,min=6,max=20"`
	AvatarURL string `json:"avatar_url"`
}

// LoginRequest 로그인 요청 (사용자명 또는 이메일)
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest 내 정보 수정 요청
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty" binding:"omitempty,min=1,max=50"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	Password  *string `json:"password,omitempty" binding:"omitempty,min=6,max=20"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty" binding:"omitempty,max=500"`
}

// AdminCreateUserRequest 관리자 사용자 생성 요청
type AdminCreateUserRequest struct {
	RegisterRequest
	Role UserRole `json:"role" binding:"omitempty,oneof=user admin"`
}

// AdminUpdateUserRequest 관리자 사용자 수정 요청
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Role   *UserRole   `json:"role,omitempty" binding:"omitempty,oneof=user admin"`
	Status *UserStatus `json:"status,omitempty" binding:"omitempty,oneof=0 1"`
}

// UserListQuery 관리자 사용자 목록 조회
type UserListQuery struct {
	Page    int      `form:"page"`
	Limit   int      `form:"limit"`
	Keyword string   `form:"keyword"`
	Status  *int     `form:"status"`
	Role    UserRole `form:"role"`
}
