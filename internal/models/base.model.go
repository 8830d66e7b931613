package models

import (
	"time"
)

type BaseModel struct {
	ID        int       `gorm:"type:int;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"                    json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"                    json:"updatedAt"`
}

// Tombstone is the explicit soft-delete pair. Deletes set it, restores clear
// it, and every read path filters on it through the visibility predicates.
// Rows are never physically removed by a delete command.
type Tombstone struct {
	DeletedAt *time.Time `gorm:"type:timestamp;index" json:"deletedAt,omitempty"`
	DeletedBy *string    `gorm:"type:text"            json:"deletedBy,omitempty"`
}

func (t *Tombstone) IsDeleted() bool {
	return t.DeletedAt != nil
}

func (t *Tombstone) MarkDeleted(by string, at time.Time) {
	t.DeletedAt = &at
	t.DeletedBy = &by
}

func (t *Tombstone) Clear() {
	t.DeletedAt = nil
	t.DeletedBy = nil
}
