package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lifecycle-cms/models"
)

// ArticleVersionRepository reads the append-only version history. Appends
// happen through ArticleRepository.Commit so the snapshot and the article's
// version counter land in the same transaction; versions are removed only by
// whole-article purge.
type ArticleVersionRepository interface {
	Get(ctx context.Context, articleID uuid.UUID, versionNumber int) (*models.ArticleVersion, error)
	List(ctx context.Context, articleID uuid.UUID) ([]models.ArticleVersion, error)
}

type articleVersionRepository struct {
	db *gorm.DB
}

func NewArticleVersionRepository(db *gorm.DB) ArticleVersionRepository {
	return &articleVersionRepository{db: db}
}

func (r *articleVersionRepository) Get(ctx context.Context, articleID uuid.UUID, versionNumber int) (*models.ArticleVersion, error) {
	var version models.ArticleVersion
	err := r.db.WithContext(ctx).
		Where("article_id = ? AND version_number = ?", articleID, versionNumber).
		Preload("Tags").
		First(&version).Error
	if err != nil {
		return nil, translate("get version", err)
	}
	return &version, nil
}

func (r *articleVersionRepository) List(ctx context.Context, articleID uuid.UUID) ([]models.ArticleVersion, error) {
	var versions []models.ArticleVersion
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Preload("Tags").
		Order("version_number desc").
		Find(&versions).Error
	if err != nil {
		return nil, translate("list versions", err)
	}
	return versions, nil
}
