package repositories

import (
	"context"
	"upkeep/internal/database"
	contextutil "upkeep/internal/context"
	. "upkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// CompletionRepository is an append-only ledger. There is no update path and
// the only delete is an explicit administrative hard delete.
type CompletionRepository interface {
	GetByID(ctx context.Context, id int) (*EquipmentCompletion, error)
	ListByRecord(ctx context.Context, recordID int) ([]EquipmentCompletion, error)
	ListByBusiness(ctx context.Context, businessID int) ([]EquipmentCompletion, error)
	Create(ctx context.Context, completion *EquipmentCompletion) (*EquipmentCompletion, error)
	HardDelete(ctx context.Context, id int) error
}

type completionRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCompletionRepository(db database.DB) CompletionRepository {
	return &completionRepository{
		db:  db,
		log: logger.New("completionRepository"),
	}
}

func (r *completionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQL.WithContext(ctx)
}

func (r *completionRepository) GetByID(ctx context.Context, id int) (*EquipmentCompletion, error) {
	log := r.log.Function("GetByID")

	var completion EquipmentCompletion
	if err := r.getDB(ctx).First(&completion, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get completion by ID", translateError(err), "id", id)
	}

	return &completion, nil
}

func (r *completionRepository) ListByRecord(ctx context.Context, recordID int) ([]EquipmentCompletion, error) {
	log := r.log.Function("ListByRecord")

	var completions []EquipmentCompletion
	err := r.getDB(ctx).
		Where("equipment_record_id = ?", recordID).
		Order("completed_at DESC").
		Find(&completions).Error
	if err != nil {
		return nil, log.Err("failed to list completions for record", err, "recordID", recordID)
	}

	return completions, nil
}

func (r *completionRepository) ListByBusiness(ctx context.Context, businessID int) ([]EquipmentCompletion, error) {
	log := r.log.Function("ListByBusiness")

	var completions []EquipmentCompletion
	err := r.getDB(ctx).
		Where(`equipment_record_id IN (
			SELECT er.id FROM equipment_records er
			JOIN clients c ON c.id = er.client_id
			WHERE c.business_id = ?)`, businessID).
		Order("completed_at DESC").
		Find(&completions).Error
	if err != nil {
		return nil, log.Err("failed to list completions for business", err, "businessID", businessID)
	}

	return completions, nil
}

func (r *completionRepository) Create(ctx context.Context, completion *EquipmentCompletion) (*EquipmentCompletion, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(completion).Error; err != nil {
		return nil, log.Err("failed to create completion", translateError(err),
			"recordID", completion.EquipmentRecordID)
	}

	return completion, nil
}

func (r *completionRepository) HardDelete(ctx context.Context, id int) error {
	log := r.log.Function("HardDelete")

	result := r.getDB(ctx).Delete(&EquipmentCompletion{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete completion", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("completion not found", ErrNotFound, "id", id)
	}

	return nil
}
