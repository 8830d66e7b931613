package repositories

import (
	"errors"
	"upkeep/internal/database"
	"upkeep/internal/models"

	"gorm.io/gorm"
)

type Repository struct {
	Business        BusinessRepository
	Client          ClientRepository
	Site            SiteRepository
	EquipmentType   EquipmentTypeRepository
	EquipmentRecord EquipmentRecordRepository
	Completion      CompletionRepository
}

func New(db database.DB) Repository {
	return Repository{
		Business:        NewBusinessRepository(db),
		Client:          NewClientRepository(db),
		Site:            NewSiteRepository(db),
		EquipmentType:   NewEquipmentTypeRepository(db),
		EquipmentRecord: NewEquipmentRecordRepository(db),
		Completion:      NewCompletionRepository(db),
	}
}

// translateError maps GORM storage errors onto the core taxonomy. Unique
// violations arrive as gorm.ErrDuplicatedKey because TranslateError is set on
// the connection.
func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.ErrConflict
	}
	return err
}
