package models

import "gorm.io/gorm"

// Client is a customer organization of one business. Sites and equipment
// records scope to it, and its tombstone is the soft-delete propagation
// boundary for both.
type Client struct {
	BaseModel
	Tombstone
	BusinessID int     `gorm:"type:int;not null;index:idx_clients_business" json:"businessId" validate:"required"`
	Name       string  `gorm:"type:text;not null"                           json:"name" validate:"required"`
	Notes      *string `gorm:"type:text"                                    json:"notes,omitempty"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Sites    []Site    `gorm:"foreignKey:ClientID"   json:"sites,omitempty"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.BusinessID == 0 || c.Name == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
