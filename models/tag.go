package models

import (
	"time"

	"gorm.io/gorm"
)

// Tag is shared across articles; UsageCount and TrendingScore are derived
// from published versions and recomputed after content commits.
type Tag struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	Name          string         `json:"name" gorm:"uniqueIndex;not null"`
	UsageCount    int            `json:"usage_count" gorm:"default:0"`
	TrendingScore float64        `json:"trending_score" gorm:"default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// Names flattens tags for version snapshots and API responses.
func Names(tags []Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}
