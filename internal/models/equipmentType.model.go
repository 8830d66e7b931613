package models

import "gorm.io/gorm"

// EquipmentType is a recurrence template. BusinessID nil means global: visible
// to every business until shadowed by a same-name tenant override. Name is
// unique per scope among live rows, enforced by partial indexes.
type EquipmentType struct {
	BaseModel
	Tombstone
	BusinessID       *int   `gorm:"type:int;index:idx_equipment_types_business" json:"businessId,omitempty"`
	Name             string `gorm:"type:text;not null"                          json:"name" validate:"required"`
	IntervalWeeks    int    `gorm:"type:int;not null"                           json:"intervalWeeks" validate:"required,gt=0"`
	Pattern          string `gorm:"column:rrule;type:text;not null"             json:"pattern"`
	DefaultLeadWeeks int    `gorm:"type:int;not null;default:4"                 json:"defaultLeadWeeks"`
	Active           bool   `gorm:"type:bool;default:true"                      json:"active"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
}

func (et *EquipmentType) BeforeCreate(tx *gorm.DB) error {
	if et.Name == "" {
		return gorm.ErrInvalidValue
	}
	if et.IntervalWeeks <= 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (et *EquipmentType) Scope() Scope {
	return ScopeOf(et.BusinessID)
}

// VisibleToBusiness reports whether this type may be attached to records of
// the given business: global, or owned by that business.
func (et *EquipmentType) VisibleToBusiness(businessID int) bool {
	return et.BusinessID == nil || *et.BusinessID == businessID
}
