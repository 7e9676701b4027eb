package repositories

import (
	"context"

	"gorm.io/gorm"

	"lifecycle-cms/models"
)

type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	GetAll(ctx context.Context) ([]models.Tag, error)
	BulkUpdate(ctx context.Context, tags []models.Tag) error
	// UsageCounts counts, per tag, the published articles whose current
	// version carries that tag.
	UsageCounts(ctx context.Context) (map[uint]int, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return translate("create tag", r.db.WithContext(ctx).Create(tag).Error)
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if err != nil {
		return nil, translate("get tag", err)
	}
	return &tag, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).First(&tag, id).Error
	if err != nil {
		return nil, translate("get tag", err)
	}
	return &tag, nil
}

func (r *tagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("trending_score desc").Find(&tags).Error
	if err != nil {
		return nil, translate("list tags", err)
	}
	return tags, nil
}

func (r *tagRepository) BulkUpdate(ctx context.Context, tags []models.Tag) error {
	return translate("update tags", r.db.WithContext(ctx).Save(&tags).Error)
}

func (r *tagRepository) UsageCounts(ctx context.Context) (map[uint]int, error) {
	var results []struct {
		TagID uint
		Count int
	}

	query := `
		SELECT
			avt.tag_id,
			COUNT(*) as count
		FROM article_version_tags avt
		JOIN article_versions av ON avt.article_version_id = av.id
		JOIN articles a ON av.article_id = a.id AND av.version_number = a.current_version_number
		WHERE a.status = 'published'
		GROUP BY avt.tag_id
	`

	err := r.db.WithContext(ctx).Raw(query).Scan(&results).Error
	if err != nil {
		return nil, translate("count tag usage", err)
	}

	counts := make(map[uint]int)
	for _, result := range results {
		counts[result.TagID] = result.Count
	}
	return counts, nil
}
