package database

import (
	"upkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MigrateModels runs GORM AutoMigrate for all models. Partial unique indexes
// live in cmd/migration/migrations since GORM cannot express them.
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.Business{},
		&models.User{},
		&models.Client{},
		&models.Site{},
		&models.EquipmentType{},
		&models.EquipmentRecord{},
		&models.EquipmentCompletion{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create
// automatically.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_equipment_records_client_active ON equipment_records(client_id, active)",
		"CREATE INDEX IF NOT EXISTS idx_equipment_records_due_active ON equipment_records(due_date, active) WHERE deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_equipment_completions_record_completed ON equipment_completions(equipment_record_id, completed_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
			// Continue with other indexes even if one fails
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
