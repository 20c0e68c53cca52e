package service

import (
	"fmt"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	"github.com/ikkim/wallhub-backend/internal/authz"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"github.com/ikkim/wallhub-backend/pkg/util"
)

const defaultPopularTagLimit = 20

var tagSortColumns = map[string]string{
	"usage_count": "usage_count",
	"name":        "name",
	"created_at":  "created_at",
}

type TagService interface {
	FindOrCreate(name string) (*model.Tag, error)
	IncrementUsage(tagID uint) error
	DecrementUsage(tagID uint) error
	SetWallpaperTags(wallpaperID uint, names []string) ([]model.Tag, error)
	GetTagsByWallpaperID(wallpaperID uint) ([]model.Tag, error)
	GetTagByID(id uint) (*model.Tag, error)
	SearchTags(query model.TagListQuery) ([]model.Tag, util.Pagination, error)
	GetPopularTags(limit int) ([]model.Tag, error)
	CreateTag(actor authz.Subject, name string) (*model.Tag, error)
	UpdateTag(actor authz.Subject, id uint, name string) (*model.Tag, error)
	DeleteTag(actor authz.Subject, id uint) error
	RecountUsage() (int64, error)
}

type tagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

// normalizeTagName 앞뒤 공백 제거 후 1~50자 검증, slug 생성
func normalizeTagName(raw string) (model.Tag, error) {
	name := util.NormalizeTagName(raw)
	if n := util.RuneLen(name); n < 1 || n > model.TagNameMaxLength {
		return model.Tag{}, apperrors.NewValidation(apperrors.TagInvalidName,
			fmt.Sprintf("태그 이름은 1~%d자여야 합니다", model.TagNameMaxLength))
	}
	return model.Tag{Name: name, Slug: util.Slugify(name)}, nil
}

// normalizeTagNames slug 기준 중복 제거. 하나라도 잘못되면 아무것도 쓰지 않고 에러
func normalizeTagNames(names []string) ([]model.Tag, error) {
	seen := make(map[string]bool, len(names))
	tags := make([]model.Tag, 0, len(names))
	for _, raw := range names {
		tag, err := normalizeTagName(raw)
		if err != nil {
			return nil, err
		}
		if seen[tag.Slug] {
			continue
		}
		seen[tag.Slug] = true
		tags = append(tags, tag)
	}
	if len(tags) > model.MaxTagsPerWallpaper {
		return nil, apperrors.NewValidation(apperrors.TagTooMany,
			fmt.Sprintf("태그는 최대 %d개까지 지정할 수 있습니다", model.MaxTagsPerWallpaper))
	}
	return tags, nil
}

func (s *tagService) FindOrCreate(name string) (*model.Tag, error) {
	input, err := normalizeTagName(name)
	if err != nil {
		return nil, err
	}
	return s.tagRepo.FindOrCreate(input.Name, input.Slug)
}

func (s *tagService) IncrementUsage(tagID uint) error {
	return s.tagRepo.IncrementUsage(tagID)
}

func (s *tagService) DecrementUsage(tagID uint) error {
	return s.tagRepo.DecrementUsage(tagID)
}

// SetWallpaperTags 배경화면의 태그 집합을 names로 교체
func (s *tagService) SetWallpaperTags(wallpaperID uint, names []string) ([]model.Tag, error) {
	desired, err := normalizeTagNames(names)
	if err != nil {
		return nil, err
	}

	tags, err := s.tagRepo.ReplaceWallpaperTags(wallpaperID, desired)
	if err != nil {
		return nil, notFoundOr(err, apperrors.WallpaperNotFound, "배경화면을 찾을 수 없습니다")
	}

	logger.Info("Wallpaper tags updated", map[string]interface{}{
		"wallpaper_id": wallpaperID,
		"tag_count":    len(tags),
	})
	return tags, nil
}

func (s *tagService) GetTagsByWallpaperID(wallpaperID uint) ([]model.Tag, error) {
	return s.tagRepo.FindByWallpaperID(wallpaperID)
}

func (s *tagService) GetTagByID(id uint) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, apperrors.TagNotFound, "태그를 찾을 수 없습니다")
	}
	return tag, nil
}

// SearchTags 기본 정렬은 사용 수 내림차순
func (s *tagService) SearchTags(query model.TagListQuery) ([]model.Tag, util.Pagination, error) {
	page, limit := util.NormalizePage(query.Page, query.Limit)
	column := orderColumn(query.SortBy, tagSortColumns, "usage_count")
	direction := sortDirection(query.SortOrder, "DESC")

	tags, total, err := s.tagRepo.Search(query.Keyword, page, limit, column+" "+direction)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return tags, util.NewPagination(page, limit, total), nil
}

func (s *tagService) GetPopularTags(limit int) ([]model.Tag, error) {
	if limit <= 0 || limit > util.MaxLimit {
		limit = defaultPopularTagLimit
	}
	return s.tagRepo.FindPopular(limit)
}

// RecountUsage 운영 도구 전용 (인가 없음)
func (s *tagService) RecountUsage() (int64, error) {
	fixed, err := s.tagRepo.RecountUsage()
	if err != nil {
		return 0, err
	}
	logger.Info("Tag usage recounted", map[string]interface{}{
		"fixed": fixed,
	})
	return fixed, nil
}

func (s *tagService) CreateTag(actor authz.Subject, name string) (*model.Tag, error) {
	if err := authz.Authorize(actor, authz.ActionManageTags, authz.Resource{Kind: authz.ResourceTag}); err != nil {
		return nil, err
	}

	input, err := normalizeTagName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.tagRepo.FindBySlug(input.Slug); err == nil {
		return nil, apperrors.NewConflict(apperrors.TagNameExists, "이미 존재하는 태그입니다")
	} else if !isNotFound(err) {
		return nil, err
	}

	tag := &model.Tag{Name: input.Name, Slug: input.Slug}
	if err := s.tagRepo.Create(tag); err != nil {
		return nil, conflictOr(err, apperrors.TagNameExists, "이미 존재하는 태그입니다")
	}
	return tag, nil
}

// UpdateTag 이름 변경 시 slug도 다시 생성
func (s *tagService) UpdateTag(actor authz.Subject, id uint, name string) (*model.Tag, error) {
	if err := authz.Authorize(actor, authz.ActionManageTags, authz.Resource{Kind: authz.ResourceTag}); err != nil {
		return nil, err
	}

	input, err := normalizeTagName(name)
	if err != nil {
		return nil, err
	}

	tag, err := s.GetTagByID(id)
	if err != nil {
		return nil, err
	}

	if existing, err := s.tagRepo.FindBySlug(input.Slug); err == nil && existing.ID != id {
		return nil, apperrors.NewConflict(apperrors.TagNameExists, "이미 존재하는 태그입니다")
	} else if err != nil && !isNotFound(err) {
		return nil, err
	}

	tag.Name = input.Name
	tag.Slug = input.Slug
	if err := s.tagRepo.Update(tag); err != nil {
		return nil, conflictOr(err, apperrors.TagNameExists, "이미 존재하는 태그입니다")
	}
	return tag, nil
}

func (s *tagService) DeleteTag(actor authz.Subject, id uint) error {
	if err := authz.Authorize(actor, authz.ActionManageTags, authz.Resource{Kind: authz.ResourceTag}); err != nil {
		return err
	}

	if err := s.tagRepo.Delete(id); err != nil {
		return notFoundOr(err, apperrors.TagNotFound, "태그를 찾을 수 없습니다")
	}

	logger.Info("Tag deleted", map[string]interface{}{
		"tag_id":   id,
		"admin_id": actor.UserID,
	})
	return nil
}
