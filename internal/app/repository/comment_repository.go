package repository

import (
	"time"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id uint) (*model.Comment, error)
	UpdateContent(id uint, content string) error
	DeleteTree(id uint) (int64, error)
	FindByPost(postID uint, parentID *uint, orderBy string, page, limit int) ([]model.Comment, int64, error)
	FindByAuthor(authorID uint, page, limit int) ([]model.Comment, int64, error)
	FindLatest(limit int) ([]model.Comment, error)
	FindLikedBy(userID uint, page, limit int) ([]model.Comment, int64, error)
	ToggleLike(commentID, userID uint) (*model.CommentLikeResult, error)
	IsLiked(commentID, userID uint) (bool, error)
	Stats(postID uint) (*model.CommentStats, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create 댓글 저장과 함께 게시글 comment_count/last_comment_at, 부모 reply_count 갱신
func (r *commentRepository) Create(comment *model.Comment) error {
	logger.Debug("Creating comment in database", map[string]interface{}{
		"post_id":   comment.PostID,
		"author_id": comment.AuthorID,
		"parent_id": comment.ParentID,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Post", "Author", "Parent").Create(comment).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&model.Post{}).Where("id = ?", comment.PostID).UpdateColumns(map[string]interface{}{
			"comment_count":   gorm.Expr("comment_count + 1"),
			"last_comment_at": now,
		}).Error; err != nil {
			return err
		}

		if comment.ParentID != nil {
			if err := tx.Model(&model.Comment{}).Where("id = ?", *comment.ParentID).
				UpdateColumn("reply_count", gorm.Expr("reply_count + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create comment", err, map[string]interface{}{
			"post_id": comment.PostID,
		})
	}
	return err
}

func (r *commentRepository) FindByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) UpdateContent(id uint, content string) error {
	result := r.db.Model(&model.Comment{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// collectSubtree 대상 댓글과 모든 하위 답글 ID (너비 우선)
func collectSubtree(tx *gorm.DB, rootID uint) ([]uint, error) {
	ids := []uint{rootID}
	frontier := []uint{rootID}
	for len(frontier) > 0 {
		var children []uint
		if err := tx.Model(&model.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		ids = append(ids, children...)
		frontier = children
	}
	return ids, nil
}

// DeleteTree 하위 답글까지 삭제. 게시글 comment_count는 삭제된 수만큼,
// 직계 부모의 reply_count는 1만큼 감소. 삭제된 댓글 수를 반환
func (r *commentRepository) DeleteTree(id uint) (int64, error) {
	logger.Debug("Deleting comment tree", map[string]interface{}{
		"comment_id": id,
	})

	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			return err
		}

		ids, err := collectSubtree(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Where("comment_id IN ?", ids).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&model.Comment{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		if err := tx.Model(&model.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("CASE WHEN comment_count >= ? THEN comment_count - ? ELSE 0 END", removed, removed)).Error; err != nil {
			return err
		}

		if comment.ParentID != nil {
			if err := tx.Model(&model.Comment{}).Where("id = ? AND reply_count > 0", *comment.ParentID).
				UpdateColumn("reply_count", gorm.Expr("reply_count - 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete comment tree", err, map[string]interface{}{
			"comment_id": id,
		})
		return 0, err
	}

	logger.Debug("Comment tree deleted", map[string]interface{}{
		"comment_id": id,
		"removed":    removed,
	})
	return removed, nil
}

// FindByPost parentID가 nil이면 최상위 댓글, 아니면 해당 댓글의 답글
func (r *commentRepository) FindByPost(postID uint, parentID *uint, orderBy string, page, limit int) ([]model.Comment, int64, error) {
	q := r.db.Model(&model.Comment{}).Where("post_id = ? AND status = ?", postID, model.CommentStatusActive)
	if parentID != nil {
		q = q.Where("parent_id = ?", *parentID)
	} else {
		q = q.Where("parent_id IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := q.Preload("Author").Order(orderBy).Order("id ASC").Scopes(paginate(page, limit)).Find(&comments).Error
	return comments, total, err
}

func (r *commentRepository) FindByAuthor(authorID uint, page, limit int) ([]model.Comment, int64, error) {
	q := r.db.Model(&model.Comment{}).Where("author_id = ?", authorID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := q.Order("created_at DESC").Scopes(paginate(page, limit)).Find(&comments).Error
	return comments, total, err
}

func (r *commentRepository) FindLatest(limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Where("status = ?", model.CommentStatusActive).
		Preload("Author").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) FindLikedBy(userID uint, page, limit int) ([]model.Comment, int64, error) {
	q := r.db.Model(&model.Comment{}).
		Joins("JOIN comment_likes cl ON cl.comment_id = comments.id").
		Where("cl.user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := q.Order("cl.created_at DESC").Scopes(paginate(page, limit)).Find(&comments).Error
	return comments, total, err
}

// ToggleLike 좋아요가 있으면 취소, 없으면 추가
func (r *commentRepository) ToggleLike(commentID, userID uint) (*model.CommentLikeResult, error) {
	result := &model.CommentLikeResult{}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.Select("id").First(&comment, commentID).Error; err != nil {
			return err
		}

		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&model.CommentLike{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			if err := tx.Model(&model.Comment{}).Where("id = ? AND like_count > 0", commentID).
				UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
				return err
			}
			result.IsLiked = false
		} else {
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.CommentLike{CommentID: commentID, UserID: userID})
			if ins.Error != nil {
				return ins.Error
			}
			if ins.RowsAffected > 0 {
				if err := tx.Model(&model.Comment{}).Where("id = ?", commentID).
					UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
					return err
				}
			}
			result.IsLiked = true
		}

		return tx.Model(&model.Comment{}).Where("id = ?", commentID).Select("like_count").Scan(&result.LikeCount).Error
	})
	if err != nil {
		logger.Error("Failed to toggle comment like", err, map[string]interface{}{
			"comment_id": commentID,
			"user_id":    userID,
		})
		return nil, err
	}
	return result, nil
}

func (r *commentRepository) IsLiked(commentID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *commentRepository) Stats(postID uint) (*model.CommentStats, error) {
	stats := &model.CommentStats{}
	base := r.db.Model(&model.Comment{}).Where("post_id = ?", postID)
	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("parent_id IS NULL").Count(&stats.TopLevel).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
