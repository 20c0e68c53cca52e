package repository

import (
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByLogin(login string) (*model.User, error)
	Update(user *model.User) error
	Delete(id uint) error
	List(query model.UserListQuery, page, limit int) ([]model.User, int64, error)
	CountAdmins() (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"username": user.Username,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"username": user.Username,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLogin 사용자명 또는 이메일로 조회
func (r *userRepository) FindByLogin(login string) (*model.User, error) {
	logger.Debug("Finding user by login in database", map[string]interface{}{
		"login": login,
	})

	var user model.User
	err := r.db.Where("username = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
	})

	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

// Delete 소프트 삭제 (작성한 콘텐츠는 유지)
func (r *userRepository) Delete(id uint) error {
	logger.Debug("Deleting user from database", map[string]interface{}{
		"user_id": id,
	})

	result := r.db.Delete(&model.User{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete user from database", result.Error, map[string]interface{}{
			"user_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) List(query model.UserListQuery, page, limit int) ([]model.User, int64, error) {
	q := r.db.Model(&model.User{})
	if query.Keyword != "" {
		pattern := likePattern(query.Keyword)
		q = q.Where("(LOWER(username) LIKE ? OR LOWER(email) LIKE ?)", pattern, pattern)
	}
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	if query.Role != "" {
		q = q.Where("role = ?", query.Role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.Error("Failed to count users", err)
		return nil, 0, err
	}

	var users []model.User
	if err := q.Order("created_at DESC").Scopes(paginate(page, limit)).Find(&users).Error; err != nil {
		logger.Error("Failed to list users", err)
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) CountAdmins() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error
	return count, err
}
