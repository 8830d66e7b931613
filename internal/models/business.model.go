package models

import "gorm.io/gorm"

// Business is a tenant. Clients, users, and tenant-specific equipment types
// hang off it; equipment types with a nil BusinessID are global.
type Business struct {
	BaseModel
	Name string `gorm:"type:text;not null" json:"name" validate:"required"`

	Clients []Client `gorm:"foreignKey:BusinessID" json:"clients,omitempty"`
	Users   []User   `gorm:"foreignKey:BusinessID" json:"users,omitempty"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.Name == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
