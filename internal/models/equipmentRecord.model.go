package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EquipmentRecord is one piece of equipment at one site with its own
// schedule. AnchorDate seeds the recurrence series; DueDate is the stored
// next-due date (manually set or explicitly advanced by an update, never as a
// side effect of logging a completion). Records with no due date are skipped
// by the window queries.
type EquipmentRecord struct {
	BaseModel
	Tombstone
	ClientID        int        `gorm:"type:int;not null;index:idx_equipment_records_client" json:"clientId" validate:"required"`
	SiteID          int        `gorm:"type:int;not null;index:idx_equipment_records_site"   json:"siteId" validate:"required"`
	EquipmentTypeID int        `gorm:"type:int;not null;index:idx_equipment_records_type"   json:"equipmentTypeId" validate:"required"`
	Name            string     `gorm:"type:text;not null"                                   json:"name" validate:"required"`
	Make            *string    `gorm:"type:text"                                            json:"make,omitempty"`
	Model           *string    `gorm:"type:text"                                            json:"model,omitempty"`
	SerialNumber    *string    `gorm:"type:text"                                            json:"serialNumber,omitempty"`
	AnchorDate      time.Time  `gorm:"type:date;not null"                                   json:"anchorDate" validate:"required"`
	DueDate         *time.Time `gorm:"type:date;index:idx_equipment_records_due"            json:"dueDate,omitempty"`
	IntervalWeeks   int        `gorm:"type:int;not null;default:52"                         json:"intervalWeeks"`
	LeadWeeks       *int       `gorm:"type:int"                                             json:"leadWeeks,omitempty"`
	Active          bool       `gorm:"type:bool;default:true"                               json:"active"`
	Notes           *string    `gorm:"type:text"                                            json:"notes,omitempty"`

	// Metadata carries import provenance and other loose adapter payloads.
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	Client        *Client        `gorm:"foreignKey:ClientID"        json:"client,omitempty"`
	Site          *Site          `gorm:"foreignKey:SiteID"          json:"site,omitempty"`
	EquipmentType *EquipmentType `gorm:"foreignKey:EquipmentTypeID" json:"equipmentType,omitempty"`
}

func (er *EquipmentRecord) BeforeCreate(tx *gorm.DB) error {
	if er.ClientID == 0 || er.SiteID == 0 || er.EquipmentTypeID == 0 {
		return gorm.ErrInvalidValue
	}
	if er.Name == "" {
		return gorm.ErrInvalidValue
	}
	if er.AnchorDate.IsZero() {
		return gorm.ErrInvalidValue
	}
	if er.IntervalWeeks <= 0 {
		er.IntervalWeeks = 52
	}
	return nil
}

// EffectiveLeadWeeks falls back to the type default when the record has no
// override.
func (er *EquipmentRecord) EffectiveLeadWeeks() int {
	if er.LeadWeeks != nil {
		return *er.LeadWeeks
	}
	if er.EquipmentType != nil {
		return er.EquipmentType.DefaultLeadWeeks
	}
	return 0
}
