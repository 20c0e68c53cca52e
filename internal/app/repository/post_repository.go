package repository

import (
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter 게시글 목록 조건 (OrderBy는 서비스에서 화이트리스트 검증 후 전달)
type PostFilter struct {
	Category model.PostCategory
	Search   string
	AuthorID *uint
	Tags     []string
	OrderBy  string
	Page     int
	Limit    int
}

type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id uint) (*model.Post, error)
	Update(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	FindAll(filter PostFilter) ([]model.Post, int64, error)
	FindPopular(limit int) ([]model.Post, error)
	FindLatest(limit int) ([]model.Post, error)
	FindByAuthor(authorID uint, page, limit int) ([]model.Post, int64, error)
	IncrementViewCount(id uint) error
	Like(userID, postID uint) (*model.InteractionState, error)
	Unlike(userID, postID uint) (*model.InteractionState, error)
	HasLiked(userID, postID uint) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *model.Post) error {
	logger.Debug("Creating post in database", map[string]interface{}{
		"author_id": post.AuthorID,
		"category":  post.Category,
	})

	if err := r.db.Create(post).Error; err != nil {
		logger.Error("Failed to create post", err, map[string]interface{}{
			"author_id": post.AuthorID,
		})
		return err
	}
	return nil
}

func (r *postRepository) FindByID(id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.Preload("Author").First(&post, id).Error; err != nil {
		logger.Error("Failed to find post by ID", err, map[string]interface{}{
			"post_id": id,
		})
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(id uint, updates map[string]interface{}) error {
	result := r.db.Model(&model.Post{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to update post", result.Error, map[string]interface{}{
			"post_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 댓글 좋아요 → 댓글 → 게시글 좋아요 → 게시글 순으로 한 트랜잭션에서 삭제
func (r *postRepository) Delete(id uint) error {
	logger.Debug("Deleting post from database", map[string]interface{}{
		"post_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Select("id").First(&post, id).Error; err != nil {
			return err
		}

		commentIDs := tx.Model(&model.Comment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete post", err, map[string]interface{}{
			"post_id": id,
		})
	}
	return err
}

// FindAll 공개(published) 게시글만 조회
func (r *postRepository) FindAll(filter PostFilter) ([]model.Post, int64, error) {
	q := r.db.Model(&model.Post{}).Where("status = ?", model.PostStatusPublished)

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.AuthorID != nil {
		q = q.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(summary) LIKE ?)", pattern, pattern, pattern)
	}
	// CSV 태그: 요청한 태그가 모두 포함되어야 함
	for _, tag := range filter.Tags {
		q = q.Where("(',' || tags || ',') LIKE ?", "%,"+tag+",%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.Error("Failed to count posts", err)
		return nil, 0, err
	}

	var posts []model.Post
	err := q.Preload("Author").
		Order("is_pinned DESC").
		Order(filter.OrderBy).
		Scopes(paginate(filter.Page, filter.Limit)).
		Find(&posts).Error
	if err != nil {
		logger.Error("Failed to find posts", err)
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) FindPopular(limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Where("status = ?", model.PostStatusPublished).
		Preload("Author").
		Order("view_count DESC").Order("like_count DESC").Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) FindLatest(limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Where("status = ?", model.PostStatusPublished).
		Preload("Author").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) FindByAuthor(authorID uint, page, limit int) ([]model.Post, int64, error) {
	q := r.db.Model(&model.Post{}).Where("author_id = ?", authorID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := q.Order("created_at DESC").Scopes(paginate(page, limit)).Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *postRepository) setLike(userID, postID uint, liked bool) (*model.InteractionState, error) {
	state := &model.InteractionState{Active: liked}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			return err
		}

		if liked {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.PostLike{PostID: postID, UserID: userID})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				if err := tx.Model(&model.Post{}).Where("id = ?", postID).
					UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
					return err
				}
			}
		} else {
			res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.PostLike{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				if err := tx.Model(&model.Post{}).Where("id = ? AND like_count > 0", postID).
					UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
					return err
				}
			}
		}

		return tx.Model(&model.Post{}).Where("id = ?", postID).Select("like_count").Scan(&state.Count).Error
	})
	if err != nil {
		logger.Error("Failed to set post like", err, map[string]interface{}{
			"user_id": userID,
			"post_id": postID,
			"liked":   liked,
		})
		return nil, err
	}
	return state, nil
}

func (r *postRepository) Like(userID, postID uint) (*model.InteractionState, error) {
	return r.setLike(userID, postID, true)
}

func (r *postRepository) Unlike(userID, postID uint) (*model.InteractionState, error) {
	return r.setLike(userID, postID, false)
}

func (r *postRepository) HasLiked(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}
