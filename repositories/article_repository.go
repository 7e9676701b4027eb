package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lifecycle-cms/errs"
	"lifecycle-cms/models"
)

type ArticleRepository interface {
	// Create persists a new article and its first version in one transaction.
	Create(ctx context.Context, article *models.Article, first *models.ArticleVersion) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	GetList(ctx context.Context, params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error)
	// Commit applies the article's mutated fields with a compare-and-set on
	// lock_version, optionally appending a version snapshot in the same
	// transaction. A lost race surfaces as ErrStaleState.
	Commit(ctx context.Context, article *models.Article, newVersion *models.ArticleVersion) error
	// Purge removes the article and all of its versions atomically.
	Purge(ctx context.Context, id uuid.UUID) error
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
	// ListDueScheduled returns scheduled articles whose publish time has arrived.
	ListDueScheduled(ctx context.Context, now time.Time, limit int) ([]models.Article, error)
	// ListDueTrashed returns trashed articles deleted at or before the cutoff.
	ListDueTrashed(ctx context.Context, cutoff time.Time, limit int) ([]models.Article, error)
}

// Listing columns callers may sort by. Order clauses are built only from this
// set so request parameters never reach the SQL text.
var sortableColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"published_at": true,
	"title":        true,
	"status":       true,
}

func orderClause(sortBy, sortOrder string) string {
	if !sortableColumns[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	return "articles." + sortBy + " " + sortOrder
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article, first *models.ArticleVersion) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(article).Error; err != nil {
			return err
		}
		first.ArticleID = article.ID
		return tx.Create(first).Error
	})
	return translate("create article", err)
}

func (r *articleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Preload("Owner").First(&article, "id = ?", id).Error
	if err != nil {
		return nil, translate("get article", err)
	}
	return &article, nil
}

func (r *articleRepository) GetList(ctx context.Context, params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Article{}).Preload("Owner")

	if isPublic {
		query = query.Where("status = ?", models.StatusPublished)
	} else {
		// Trashed articles never appear in regular listings.
		query = query.Where("status <> ?", models.StatusTrashed)
		if params.Status != "" {
			query = query.Where("status = ?", params.Status)
		}
	}

	if params.OwnerID > 0 {
		query = query.Where("owner_id = ?", params.OwnerID)
	}

	if params.TagID > 0 {
		query = query.Joins("JOIN article_versions ON article_versions.article_id = articles.id AND article_versions.version_number = articles.current_version_number").
			Joins("JOIN article_version_tags ON article_version_tags.article_version_id = article_versions.id").
			Where("article_version_tags.tag_id = ?", params.TagID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate("count articles", err)
	}

	query = query.Order(orderClause(params.SortBy, params.SortOrder))

	offset := (params.Page - 1) * params.Limit
	err := query.Offset(offset).Limit(params.Limit).Find(&articles).Error
	if err != nil {
		return nil, 0, translate("list articles", err)
	}
	return articles, total, nil
}

func (r *articleRepository) Commit(ctx context.Context, article *models.Article, newVersion *models.ArticleVersion) error {
	baseLock := article.LockVersion
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Article{}).
			Where("id = ? AND lock_version = ?", article.ID, baseLock).
			Updates(map[string]interface{}{
				"status":                 article.Status,
				"title":                  article.Title,
				"content":                article.Content,
				"current_version_number": article.CurrentVersionNumber,
				"scheduled_publish_at":   article.ScheduledPublishAt,
				"published_at":           article.PublishedAt,
				"deleted_at":             article.DeletedAt,
				"lock_version":           baseLock + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Either the article is gone or another writer committed first.
			var count int64
			if err := tx.Model(&models.Article{}).Where("id = ?", article.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return errs.ErrNotFound
			}
			return errs.ErrStaleState
		}
		if newVersion != nil {
			newVersion.ArticleID = article.ID
			if err := tx.Create(newVersion).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrStaleState) {
		return err
	}
	if err != nil {
		return translate("commit article", err)
	}
	article.LockVersion = baseLock + 1
	return nil
}

func (r *articleRepository) Purge(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Article{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrNotFound
		}
		if err := tx.Exec(
			"DELETE FROM article_version_tags WHERE article_version_id IN (SELECT id FROM article_versions WHERE article_id = ?)", id,
		).Error; err != nil {
			return err
		}
		return tx.Where("article_id = ?", id).Delete(&models.ArticleVersion{}).Error
	})
	if errors.Is(err, errs.ErrNotFound) {
		return err
	}
	return translate("purge article", err)
}

func (r *articleRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).
		Where("owner_id = ?", ownerID).Count(&count).Error
	if err != nil {
		return 0, translate("count owner articles", err)
	}
	return count, nil
}

func (r *articleRepository) ListDueScheduled(ctx context.Context, now time.Time, limit int) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_publish_at <= ?", models.StatusScheduled, now).
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, translate("list due scheduled", err)
	}
	return articles, nil
}

func (r *articleRepository) ListDueTrashed(ctx context.Context, cutoff time.Time, limit int) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Where("status = ? AND deleted_at <= ?", models.StatusTrashed, cutoff).
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, translate("list due trashed", err)
	}
	return articles, nil
}
