package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusScheduled ArticleStatus = "scheduled"
	StatusPublished ArticleStatus = "published"
	StatusTrashed   ArticleStatus = "trashed"
)

// Article is the authoritative record for a piece of authored content. Status
// and the lifecycle timestamps are written only through the article service;
// LockVersion backs the per-article compare-and-set commit.
type Article struct {
	ID                   uuid.UUID       `json:"id" gorm:"type:uuid;primarykey"`
	OwnerID              uint            `json:"owner_id" gorm:"not null;index"`
	Owner                User            `json:"owner" gorm:"foreignKey:OwnerID"`
	Status               ArticleStatus   `json:"status" gorm:"not null;default:'draft';index"`
	Title                string          `json:"title" gorm:"not null"`
	Content              string          `json:"content" gorm:"type:text"`
	CurrentVersionNumber int             `json:"current_version_number" gorm:"not null;default:1"`
	CurrentVersion       *ArticleVersion `json:"current_version,omitempty" gorm:"-"`
	ScheduledPublishAt   *time.Time      `json:"scheduled_publish_at"`
	PublishedAt          *time.Time      `json:"published_at"`
	DeletedAt            *time.Time      `json:"deleted_at" gorm:"index"`
	LockVersion          int64           `json:"-" gorm:"not null;default:0"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// PurgeAfter is the instant the retention window closes for a trashed
// article. The zero time is returned for articles not in the trash.
func (a *Article) PurgeAfter(retention time.Duration) time.Time {
	if a.DeletedAt == nil {
		return time.Time{}
	}
	return a.DeletedAt.Add(retention)
}
