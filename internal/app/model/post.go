package model

import (
	"strings"
	"time"
)

// PostCategory 게시글 카테고리
type PostCategory string

const (
	PostCategoryTechDiscussion    PostCategory = "tech_discussion"
	PostCategoryExperienceSharing PostCategory = "experience_sharing"
	PostCategoryQA                PostCategory = "q_a"
	PostCategoryResourceSharing   PostCategory = "resource_sharing"
)

func (c PostCategory) Valid() bool {
	switch c {
	case PostCategoryTechDiscussion, PostCategoryExperienceSharing, PostCategoryQA, PostCategoryResourceSharing:
		return true
	}
	return false
}

// PostStatus 게시글 상태
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusModerated PostStatus = "moderated"
	PostStatusHidden    PostStatus = "hidden"
)

// Post 포럼 게시글. Tags는 쉼표 구분 문자열로 저장
type Post struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(255);not null" json:"title"`
	Content      string       `gorm:"type:text;not null" json:"content"`
	Summary      string       `gorm:"type:varchar(500)" json:"summary"`
	ThumbnailURL string       `gorm:"type:varchar(500)" json:"thumbnail_url"`
	Category     PostCategory `gorm:"type:varchar(30);not null;index" json:"category"`
	Status       PostStatus   `gorm:"type:varchar(20);default:'published';index" json:"status"`
	Tags         string       `gorm:"type:varchar(500)" json:"tags"`

	AuthorID uint  `gorm:"not null;index" json:"author_id"`
	Author   *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`

	ViewCount    int64 `gorm:"not null;default:0" json:"view_count"`
	LikeCount    int64 `gorm:"not null;default:0" json:"like_count"`
	CommentCount int64 `gorm:"not null;default:0" json:"comment_count"` // 대댓글 포함 전체 댓글 수
	ShareCount   int64 `gorm:"not null;default:0" json:"share_count"`

	IsPinned      bool       `gorm:"default:false" json:"is_pinned"`
	IsFeatured    bool       `gorm:"default:false" json:"is_featured"`
	LastCommentAt *time.Time `json:"last_comment_at,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContentHTML string `gorm:"-" json:"content_html,omitempty"` // 상세 조회 시 렌더링
}

func (Post) TableName() string {
	return "posts"
}

// TagList CSV 태그를 슬라이스로 변환
func (p *Post) TagList() []string {
	var tags []string
	for _, t := range strings.Split(p.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// PostLike 게시글 좋아요 (post_id, user_id 유일)
type PostLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	PostID    uint      `gorm:"not null;index:idx_post_user_like,unique" json:"post_id"`
	UserID    uint      `gorm:"not null;index:idx_post_user_like,unique;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

type CreatePostRequest struct {
	Title        string       `json:"title" binding:"required,max=255"`
	Content      string       `json:"content" binding:"required"`
	Category     PostCategory `json:"category" binding:"required,oneof=tech_discussion experience_sharing q_a resource_sharing"`
	Summary      string       `json:"summary" binding:"max=500"`
	ThumbnailURL string       `json:"thumbnail_url" binding:"max=500"`
	Tags         []string     `json:"tags"`
}

type UpdatePostRequest struct {
	Title        *string       `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	Content      *string       `json:"content,omitempty" binding:"omitempty,min=1"`
	Category     *PostCategory `json:"category,omitempty" binding:"omitempty,oneof=tech_discussion experience_sharing q_a resource_sharing"`
	Summary      *string       `json:"summary,omitempty" binding:"omitempty,max=500"`
	ThumbnailURL *string       `json:"thumbnail_url,omitempty" binding:"omitempty,max=500"`
	Tags         []string      `json:"tags,omitempty"`
}

// PostListQuery 게시글 목록 조회
type PostListQuery struct {
	Page      int          `form:"page"`
	Limit     int          `form:"limit"`
	SortBy    string       `form:"sort_by"`    // created_at, updated_at, view_count, like_count, comment_count, popular
	SortOrder string       `form:"sort_order"` // asc, desc (기본 desc)
	Category  PostCategory `form:"category"`
	Search    string       `form:"search" binding:"max=200"`
	AuthorID  *uint        `form:"author_id"`
	Tags      []string     `form:"tags"`
}

// PostDetail 상세 조회 응답
type PostDetail struct {
	*Post
	IsLiked bool `json:"is_liked"`
}
