package repositories

import (
	"context"
	"time"
	"upkeep/internal/database"
	contextutil "upkeep/internal/context"
	. "upkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// RecordFilter narrows record listings. Zero value means no narrowing beyond
// the caller's own visibility.
type RecordFilter struct {
	ClientID   *int
	SiteID     *int
	ActiveOnly bool
}

type EquipmentRecordRepository interface {
	GetByID(ctx context.Context, caller Caller, id int) (*EquipmentRecord, error)
	List(ctx context.Context, caller Caller, filter RecordFilter) ([]EquipmentRecord, error)
	Create(ctx context.Context, record *EquipmentRecord) (*EquipmentRecord, error)
	Update(ctx context.Context, record *EquipmentRecord) error
	Tombstone(ctx context.Context, id int, by string, at time.Time) error
	TombstoneBySite(ctx context.Context, siteID int, by string, at time.Time) error
	TombstoneByClient(ctx context.Context, clientID int, by string, at time.Time) error
	Restore(ctx context.Context, id int) error
}

type equipmentRecordRepository struct {
	db  database.DB
	log logger.Logger
}

func NewEquipmentRecordRepository(db database.DB) EquipmentRecordRepository {
	return &equipmentRecordRepository{
		db:  db,
		log: logger.New("equipmentRecordRepository"),
	}
}

func (r *equipmentRecordRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQL.WithContext(ctx)
}

// scoped joins through clients; a record's tenant is its client's business.
func (r *equipmentRecordRepository) scoped(ctx context.Context, caller Caller) *gorm.DB {
	query := r.getDB(ctx).Model(&EquipmentRecord{})
	if !caller.WantsDeleted() {
		query = query.Where("equipment_records.deleted_at IS NULL")
	}
	if !caller.AllBusinesses() {
		query = query.Where(
			"equipment_records.client_id IN (SELECT id FROM clients WHERE business_id = ?)",
			caller.BusinessID,
		)
	}
	return query
}

func (r *equipmentRecordRepository) GetByID(ctx context.Context, caller Caller, id int) (*EquipmentRecord, error) {
	log := r.log.Function("GetByID")

	var record EquipmentRecord
	err := r.scoped(ctx, caller).
		Preload("Client").
		Preload("Site").
		Preload("EquipmentType").
		First(&record, "equipment_records.id = ?", id).Error
	if err != nil {
		return nil, log.Err("failed to get equipment record by ID", translateError(err), "id", id)
	}

	return &record, nil
}

func (r *equipmentRecordRepository) List(
	ctx context.Context,
	caller Caller,
	filter RecordFilter,
) ([]EquipmentRecord, error) {
	log := r.log.Function("List")

	query := r.scoped(ctx, caller).
		Preload("Site").
		Preload("EquipmentType")
	if filter.ClientID != nil {
		query = query.Where("equipment_records.client_id = ?", *filter.ClientID)
	}
	if filter.SiteID != nil {
		query = query.Where("equipment_records.site_id = ?", *filter.SiteID)
	}
	if filter.ActiveOnly {
		query = query.Where("equipment_records.active")
	}

	var records []EquipmentRecord
	if err := query.Order("equipment_records.due_date NULLS LAST, equipment_records.name").Find(&records).Error; err != nil {
		return nil, log.Err("failed to list equipment records", err)
	}

	return records, nil
}

func (r *equipmentRecordRepository) Create(ctx context.Context, record *EquipmentRecord) (*EquipmentRecord, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(record).Error; err != nil {
		return nil, log.Err("failed to create equipment record", translateError(err), "name", record.Name)
	}

	return record, nil
}

func (r *equipmentRecordRepository) Update(ctx context.Context, record *EquipmentRecord) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Omit("Client", "Site", "EquipmentType").Save(record).Error; err != nil {
		return log.Err("failed to update equipment record", translateError(err), "id", record.ID)
	}

	return nil
}

func (r *equipmentRecordRepository) Tombstone(ctx context.Context, id int, by string, at time.Time) error {
	log := r.log.Function("Tombstone")

	result := r.getDB(ctx).Model(&EquipmentRecord{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": at, "deleted_by": by})
	if result.Error != nil {
		return log.Err("failed to tombstone equipment record", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("equipment record not found or already deleted", ErrNotFound, "id", id)
	}

	return nil
}

func (r *equipmentRecordRepository) TombstoneBySite(ctx context.Context, siteID int, by string, at time.Time) error {
	log := r.log.Function("TombstoneBySite")

	err := r.getDB(ctx).Model(&EquipmentRecord{}).
		Where("site_id = ? AND deleted_at IS NULL", siteID).
		Updates(map[string]any{"deleted_at": at, "deleted_by": by}).Error
	if err != nil {
		return log.Err("failed to tombstone equipment records for site", err, "siteID", siteID)
	}

	return nil
}

func (r *equipmentRecordRepository) TombstoneByClient(ctx context.Context, clientID int, by string, at time.Time) error {
	log := r.log.Function("TombstoneByClient")

	err := r.getDB(ctx).Model(&EquipmentRecord{}).
		Where("client_id = ? AND deleted_at IS NULL", clientID).
		Updates(map[string]any{"deleted_at": at, "deleted_by": by}).Error
	if err != nil {
		return log.Err("failed to tombstone equipment records for client", err, "clientID", clientID)
	}

	return nil
}

func (r *equipmentRecordRepository) Restore(ctx context.Context, id int) error {
	log := r.log.Function("Restore")

	result := r.getDB(ctx).Model(&EquipmentRecord{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]any{"deleted_at": nil, "deleted_by": nil})
	if result.Error != nil {
		return log.Err("failed to restore equipment record", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("equipment record has no tombstone", ErrNotDeleted, "id", id)
	}

	return nil
}
