package models

import (
	"time"

	"gorm.io/gorm"

	"lifecycle-cms/policy"
)

type UserRole string

const (
	RoleWriter UserRole = "writer"
	RoleEditor UserRole = "editor"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Username  string         `json:"username" gorm:"uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"`
	Role      UserRole       `json:"role" gorm:"default:'writer'"`
	Plan      policy.Plan    `json:"plan" gorm:"default:'free'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Actor identifies who is invoking a lifecycle operation. Capability checks
// use the acting user's plan, not the article owner's.
type Actor struct {
	ID      uint
	Plan    policy.Plan
	IsAdmin bool
}

// Can reports whether the actor holds the capability.
func (a Actor) Can(cap policy.Capability) bool {
	return policy.CanAccess(a.Plan, a.IsAdmin, cap)
}
