package model

import "time"

const CommentMaxLength = 2000

type CommentStatus string

const (
	CommentStatusActive CommentStatus = "active"
	CommentStatusHidden CommentStatus = "hidden"
)

// Comment 게시글 댓글. ParentID가 있으면 같은 게시글의 댓글에 대한 답글
type Comment struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`

	PostID uint  `gorm:"not null;index" json:"post_id"`
	Post   *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`

	AuthorID uint  `gorm:"not null;index" json:"author_id"`
	Author   *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`

	ParentID *uint    `gorm:"index" json:"parent_id,omitempty"`
	Parent   *Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`

	LikeCount  int64         `gorm:"not null;default:0" json:"like_count"`
	ReplyCount int64         `gorm:"not null;default:0" json:"reply_count"` // 직계 답글 수
	Status     CommentStatus `gorm:"type:varchar(20);default:'active'" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentLike 댓글 좋아요 (comment_id, user_id 유일)
type CommentLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CommentID uint      `gorm:"not null;index:idx_comment_user_like,unique" json:"comment_id"`
	UserID    uint      `gorm:"not null;index:idx_comment_user_like,unique;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}

type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,max=2000"`
	PostID   uint   `json:"post_id" binding:"required,min=1"`
	ParentID *uint  `json:"parent_id,omitempty" binding:"omitempty,min=1"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// CommentListQuery 댓글 목록. ParentID가 없으면 최상위 댓글만
type CommentListQuery struct {
	PostID    uint   `form:"-"`
	ParentID  *uint  `form:"parent_id"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	SortBy    string `form:"sort_by"`    // created_at, updated_at, like_count
	SortOrder string `form:"sort_order"` // asc(기본), desc
}

// CommentLikeResult 좋아요 토글 결과
type CommentLikeResult struct {
	IsLiked   bool  `json:"is_liked"`
	LikeCount int64 `json:"like_count"`
}

type CommentStats struct {
	Total    int64 `json:"total"`
	TopLevel int64 `json:"top_level"`
}
