package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	BaseModel
	Email       string  `gorm:"type:text;not null;uniqueIndex" json:"email"`
	DisplayName string  `gorm:"type:text"                      json:"displayName"`
	IsAdmin     bool    `gorm:"type:bool;default:false"        json:"isAdmin"`
	IsActive    bool    `gorm:"type:bool;default:true"         json:"isActive"`
	BusinessID  *int    `gorm:"type:int;index"                 json:"businessId,omitempty"`

	LastLoginAt *time.Time `gorm:"type:timestamp" json:"lastLoginAt,omitempty"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Email == "" {
		return gorm.ErrInvalidValue
	}
	if u.DisplayName == "" {
		u.DisplayName = u.Email
	}
	return nil
}

// Caller derives the request context granted to this user. Admins without a
// business operate in all-businesses mode.
func (u *User) Caller(includeDeleted bool) Caller {
	return Caller{
		Subject:        u.Email,
		BusinessID:     u.BusinessID,
		IsPrivileged:   u.IsAdmin,
		IncludeDeleted: includeDeleted,
	}
}
