package models

import (
	"time"

	"github.com/google/uuid"
)

// ArticleVersion is an immutable snapshot of an article's content fields.
// Version numbers are strictly increasing per article and never reused;
// restoring an old version appends a new one rather than rewriting history.
type ArticleVersion struct {
	ID                uint      `json:"id" gorm:"primarykey"`
	ArticleID         uuid.UUID `json:"article_id" gorm:"type:uuid;not null;uniqueIndex:idx_article_version"`
	VersionNumber     int       `json:"version_number" gorm:"not null;uniqueIndex:idx_article_version"`
	Title             string    `json:"title" gorm:"not null"`
	Content           string    `json:"content" gorm:"type:text"`
	Tags              []Tag     `json:"tags" gorm:"many2many:article_version_tags;"`
	CreatedBy         uint      `json:"created_by" gorm:"not null"`
	ChangeDescription string    `json:"change_description"`
	CreatedAt         time.Time `json:"created_at"`
}

// VersionMetadata is the list-view projection of a version (no content body).
type VersionMetadata struct {
	VersionNumber     int       `json:"version_number"`
	Title             string    `json:"title"`
	Tags              []string  `json:"tags"`
	CreatedBy         uint      `json:"created_by"`
	ChangeDescription string    `json:"change_description"`
	CreatedAt         time.Time `json:"created_at"`
}

// Metadata projects the version for history listings.
func (v *ArticleVersion) Metadata() VersionMetadata {
	return VersionMetadata{
		VersionNumber:     v.VersionNumber,
		Title:             v.Title,
		Tags:              Names(v.Tags),
		CreatedBy:         v.CreatedBy,
		ChangeDescription: v.ChangeDescription,
		CreatedAt:         v.CreatedAt,
	}
}
