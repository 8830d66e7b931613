package initialize

import (
	"upkeep/config"
	"upkeep/internal/recurrence"
	. "upkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeGlobalTypes(db, log); err != nil {
		return log.Err("failed to initialize global equipment types", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeGlobalTypes installs the stock catalog every business starts
// from. Idempotent: existing names are left alone, including tenant
// overrides of them.
func initializeGlobalTypes(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing global equipment type catalog")

	types := []EquipmentType{
		{Name: "NM Audit", IntervalWeeks: 13, DefaultLeadWeeks: 3},
		{Name: "ACR PET / Gamma camera ACR", IntervalWeeks: 26, DefaultLeadWeeks: 4},
		{Name: "X-ray/CT physics testing", IntervalWeeks: 52, DefaultLeadWeeks: 5},
	}

	for _, equipmentType := range types {
		var existing EquipmentType
		err := db.First(&existing, "name = ? AND business_id IS NULL AND deleted_at IS NULL", equipmentType.Name).Error
		if err == nil {
			log.Debug("Global equipment type already exists", "name", equipmentType.Name)
			continue
		}

		equipmentType.Pattern = recurrence.PatternFor(equipmentType.IntervalWeeks)
		equipmentType.Active = true

		log.Info("Initializing global equipment type", "name", equipmentType.Name)
		if err := db.Create(&equipmentType).Error; err != nil {
			return log.Err("failed to create global equipment type", err, "name", equipmentType.Name)
		}
	}

	log.Info("Global equipment type catalog initialized", "count", len(types))
	return nil
}
