package models

import "time"

// ArticleVersionTag is the join table between version snapshots and tags.
// Rows are frozen with the version they belong to.
type ArticleVersionTag struct {
	ID               uint      `json:"id" gorm:"primarykey"`
	ArticleVersionID uint      `json:"article_version_id" gorm:"index"`
	TagID            uint      `json:"tag_id" gorm:"index"`
	CreatedAt        time.Time `json:"created_at"`
}
