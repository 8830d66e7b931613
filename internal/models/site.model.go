package models

import "gorm.io/gorm"

// Site belongs to exactly one client.
type Site struct {
	BaseModel
	Tombstone
	ClientID int     `gorm:"type:int;not null;index:idx_sites_client" json:"clientId" validate:"required"`
	Name     string  `gorm:"type:text;not null"                       json:"name" validate:"required"`
	Address  *string `gorm:"type:text"                                json:"address,omitempty"`
	Timezone string  `gorm:"type:text;default:'America/Chicago'"      json:"timezone"`
	Notes    *string `gorm:"type:text"                                json:"notes,omitempty"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (s *Site) BeforeCreate(tx *gorm.DB) error {
	if s.ClientID == 0 || s.Name == "" {
		return gorm.ErrInvalidValue
	}
	if s.Timezone == "" {
		s.Timezone = "America/Chicago"
	}
	return nil
}
