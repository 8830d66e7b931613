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

type SiteRepository interface {
	GetByID(ctx context.Context, caller Caller, id int) (*Site, error)
	ListByClient(ctx context.Context, caller Caller, clientID int) ([]Site, error)
	Create(ctx context.Context, site *Site) (*Site, error)
	Update(ctx context.Context, site *Site) error
	Tombstone(ctx context.Context, id int, by string, at time.Time) error
	TombstoneByClient(ctx context.Context, clientID int, by string, at time.Time) error
	Restore(ctx context.Context, id int) error
}

type siteRepository struct {
	db  database.DB
	log logger.Logger
}

func NewSiteRepository(db database.DB) SiteRepository {
	return &siteRepository{
		db:  db,
		log: logger.New("siteRepository"),
	}
}

func (r *siteRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQL.WithContext(ctx)
}

// scoped joins through clients: a site's tenant is its client's business.
func (r *siteRepository) scoped(ctx context.Context, caller Caller) *gorm.DB {
	query := r.getDB(ctx).Model(&Site{})
	if !caller.WantsDeleted() {
		query = query.Where("sites.deleted_at IS NULL")
	}
	if !caller.AllBusinesses() {
		query = query.Where(
			"sites.client_id IN (SELECT id FROM clients WHERE business_id = ?)",
			caller.BusinessID,
		)
	}
	return query
}

func (r *siteRepository) GetByID(ctx context.Context, caller Caller, id int) (*Site, error) {
	log := r.log.Function("GetByID")

	var site Site
	if err := r.scoped(ctx, caller).First(&site, "sites.id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get site by ID", translateError(err), "id", id)
	}

	return &site, nil
}

func (r *siteRepository) ListByClient(ctx context.Context, caller Caller, clientID int) ([]Site, error) {
	log := r.log.Function("ListByClient")

	var sites []Site
	err := r.scoped(ctx, caller).
		Where("sites.client_id = ?", clientID).
		Order("sites.name").
		Find(&sites).Error
	if err != nil {
		return nil, log.Err("failed to list sites", err, "clientID", clientID)
	}

	return sites, nil
}

func (r *siteRepository) Create(ctx context.Context, site *Site) (*Site, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(site).Error; err != nil {
		return nil, log.Err("failed to create site", translateError(err), "name", site.Name)
	}

	return site, nil
}

func (r *siteRepository) Update(ctx context.Context, site *Site) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(site).Error; err != nil {
		return log.Err("failed to update site", translateError(err), "id", site.ID)
	}

	return nil
}

func (r *siteRepository) Tombstone(ctx context.Context, id int, by string, at time.Time) error {
	log := r.log.Function("Tombstone")

	result := r.getDB(ctx).Model(&Site{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": at, "deleted_by": by})
	if result.Error != nil {
		return log.Err("failed to tombstone site", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("site not found or already deleted", ErrNotFound, "id", id)
	}

	return nil
}

// TombstoneByClient is the cascade half of a client delete; rows already
// tombstoned keep their original deleted_at/deleted_by.
func (r *siteRepository) TombstoneByClient(ctx context.Context, clientID int, by string, at time.Time) error {
	log := r.log.Function("TombstoneByClient")

	err := r.getDB(ctx).Model(&Site{}).
		Where("client_id = ? AND deleted_at IS NULL", clientID).
		Updates(map[string]any{"deleted_at": at, "deleted_by": by}).Error
	if err != nil {
		return log.Err("failed to tombstone sites for client", err, "clientID", clientID)
	}

	return nil
}

func (r *siteRepository) Restore(ctx context.Context, id int) error {
	log := r.log.Function("Restore")

	result := r.getDB(ctx).Model(&Site{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]any{"deleted_at": nil, "deleted_by": nil})
	if result.Error != nil {
		return log.Err("failed to restore site", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("site has no tombstone", ErrNotDeleted, "id", id)
	}

	return nil
}
