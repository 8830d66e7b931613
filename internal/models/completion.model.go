package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EquipmentCompletion is one immutable ledger row: this obligation was
// satisfied on this date. Rows are created-only; the only delete is an
// explicit administrative hard delete, and nothing here ever writes back to
// the record's schedule fields.
type EquipmentCompletion struct {
	BaseModel
	EquipmentRecordID int              `gorm:"type:int;not null;index:idx_equipment_completions_record" json:"equipmentRecordId" validate:"required"`
	CompletedAt       time.Time        `gorm:"type:timestamp;not null"                                  json:"completedAt"`
	SatisfiedDueDate  time.Time        `gorm:"type:date;not null"                                       json:"satisfiedDueDate" validate:"required"`
	IntervalWeeks     *int             `gorm:"type:int"                                                 json:"intervalWeeks,omitempty"`
	CompletedBy       string           `gorm:"type:text;not null"                                       json:"completedBy"`
	Cost              *decimal.Decimal `gorm:"type:decimal(10,2)"                                       json:"cost,omitempty"`
	Notes             *string          `gorm:"type:text"                                                json:"notes,omitempty"`

	EquipmentRecord *EquipmentRecord `gorm:"foreignKey:EquipmentRecordID" json:"equipmentRecord,omitempty"`
}

func (ec *EquipmentCompletion) BeforeCreate(tx *gorm.DB) error {
	if ec.EquipmentRecordID == 0 {
		return gorm.ErrInvalidValue
	}
	if ec.SatisfiedDueDate.IsZero() {
		return gorm.ErrInvalidValue
	}
	if ec.CompletedAt.IsZero() {
		ec.CompletedAt = time.Now().UTC()
	}
	return nil
}
