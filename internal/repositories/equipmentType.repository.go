package repositories

import (
	"context"
	"errors"
	"time"
	"upkeep/internal/database"
	contextutil "upkeep/internal/context"
	. "upkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type EquipmentTypeRepository interface {
	GetByID(ctx context.Context, caller Caller, id int) (*EquipmentType, error)
	// ListForBusiness returns live rows a business could see before
	// shadowing: global rows plus that business's own overrides.
	ListForBusiness(ctx context.Context, businessID int, includeDeleted bool) ([]EquipmentType, error)
	// ListByName returns live rows of every scope sharing a name, for the
	// grouped view and consolidation.
	ListByName(ctx context.Context, name string) ([]EquipmentType, error)
	ListAll(ctx context.Context, caller Caller) ([]EquipmentType, error)
	Create(ctx context.Context, equipmentType *EquipmentType) (*EquipmentType, error)
	Update(ctx context.Context, equipmentType *EquipmentType) error
	Tombstone(ctx context.Context, id int, by string, at time.Time) error
	Restore(ctx context.Context, id int) error
}

type equipmentTypeRepository struct {
	db  database.DB
	log logger.Logger
}

func NewEquipmentTypeRepository(db database.DB) EquipmentTypeRepository {
	return &equipmentTypeRepository{
		db:  db,
		log: logger.New("equipmentTypeRepository"),
	}
}

func (r *equipmentTypeRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQL.WithContext(ctx)
}

func (r *equipmentTypeRepository) GetByID(ctx context.Context, caller Caller, id int) (*EquipmentType, error) {
	log := r.log.Function("GetByID")

	var equipmentType EquipmentType
	if err := r.getDB(ctx).First(&equipmentType, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get equipment type by ID", translateError(err), "id", id)
	}

	// Both predicates, always: a row outside the caller's visibility is
	// indistinguishable from an absent one.
	if !Accessible(caller, &equipmentType, equipmentType.BusinessID) {
		return nil, log.Err("equipment type not visible to caller", ErrNotFound, "id", id)
	}

	return &equipmentType, nil
}

func (r *equipmentTypeRepository) ListForBusiness(
	ctx context.Context,
	businessID int,
	includeDeleted bool,
) ([]EquipmentType, error) {
	log := r.log.Function("ListForBusiness")

	query := r.getDB(ctx).
		Where("business_id IS NULL OR business_id = ?", businessID)
	if !includeDeleted {
		query = query.Where("deleted_at IS NULL")
	}

	var equipmentTypes []EquipmentType
	if err := query.Order("name, business_id NULLS LAST").Find(&equipmentTypes).Error; err != nil {
		return nil, log.Err("failed to list equipment types for business", err, "businessID", businessID)
	}

	return equipmentTypes, nil
}

func (r *equipmentTypeRepository) ListByName(ctx context.Context, name string) ([]EquipmentType, error) {
	log := r.log.Function("ListByName")

	var equipmentTypes []EquipmentType
	err := r.getDB(ctx).
		Where("name = ? AND deleted_at IS NULL", name).
		Order("business_id NULLS FIRST").
		Find(&equipmentTypes).Error
	if err != nil {
		return nil, log.Err("failed to list equipment types by name", err, "name", name)
	}

	return equipmentTypes, nil
}

func (r *equipmentTypeRepository) ListAll(ctx context.Context, caller Caller) ([]EquipmentType, error) {
	log := r.log.Function("ListAll")

	query := r.getDB(ctx).Model(&EquipmentType{})
	if !caller.WantsDeleted() {
		query = query.Where("deleted_at IS NULL")
	}
	if !caller.AllBusinesses() {
		query = query.Where("business_id IS NULL OR business_id = ?", caller.BusinessID)
	}

	var equipmentTypes []EquipmentType
	if err := query.Order("name").Find(&equipmentTypes).Error; err != nil {
		return nil, log.Err("failed to list equipment types", err)
	}

	return equipmentTypes, nil
}

func (r *equipmentTypeRepository) Create(ctx context.Context, equipmentType *EquipmentType) (*EquipmentType, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(equipmentType).Error; err != nil {
		err = translateError(err)
		// The partial unique indexes cover (name) global and
		// (business_id, name) per tenant; a conflict here is by definition a
		// same-scope name collision.
		if errors.Is(err, ErrConflict) {
			err = ErrDuplicateName
		}
		return nil, log.Err("failed to create equipment type", err,
			"name", equipmentType.Name, "scope", equipmentType.Scope().String())
	}

	return equipmentType, nil
}

func (r *equipmentTypeRepository) Update(ctx context.Context, equipmentType *EquipmentType) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(equipmentType).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, ErrConflict) {
			err = ErrDuplicateName
		}
		return log.Err("failed to update equipment type", err, "id", equipmentType.ID)
	}

	return nil
}

func (r *equipmentTypeRepository) Tombstone(ctx context.Context, id int, by string, at time.Time) error {
	log := r.log.Function("Tombstone")

	result := r.getDB(ctx).Model(&EquipmentType{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": at, "deleted_by": by})
	if result.Error != nil {
		return log.Err("failed to tombstone equipment type", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("equipment type not found or already deleted", ErrNotFound, "id", id)
	}

	return nil
}

func (r *equipmentTypeRepository) Restore(ctx context.Context, id int) error {
	log := r.log.Function("Restore")

	result := r.getDB(ctx).Model(&EquipmentType{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]any{"deleted_at": nil, "deleted_by": nil})
	if result.Error != nil {
		err := translateError(result.Error)
		// Restoring re-enters the partial unique index; a live row took the
		// name while this one was tombstoned.
		if errors.Is(err, ErrConflict) {
			err = ErrDuplicateName
		}
		return log.Err("failed to restore equipment type", err, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("equipment type has no tombstone", ErrNotDeleted, "id", id)
	}

	return nil
}
