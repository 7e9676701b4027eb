package services

import (
	"context"
	"errors"

	"lifecycle-cms/errs"
	"lifecycle-cms/models"
	"lifecycle-cms/policy"
	"lifecycle-cms/repositories"
)

type TagService interface {
	CreateTag(ctx context.Context, req models.CreateTagRequest) (*models.Tag, error)
	GetTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	// GetTrendingTags is gated on the advanced-analytics capability.
	GetTrendingTags(ctx context.Context, actor models.Actor, limit int) ([]models.Tag, error)
}

type tagService struct {
	tagRepo repositories.TagRepository
}

func NewTagService(tagRepo repositories.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) CreateTag(ctx context.Context, req models.CreateTagRequest) (*models.Tag, error) {
	_, err := s.tagRepo.GetByName(ctx, req.Name)
	if err == nil {
		return nil, errors.New("tag already exists")
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	tag := &models.Tag{Name: req.Name}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) GetTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.GetAll(ctx)
}

func (s *tagService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	return s.tagRepo.GetByID(ctx, id)
}

func (s *tagService) GetTrendingTags(ctx context.Context, actor models.Actor, limit int) ([]models.Tag, error) {
	if !actor.Can(policy.CapAdvancedAnalytics) {
		return nil, errs.ErrPermissionDenied
	}
	tags, err := s.tagRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}
