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

type ClientRepository interface {
	GetByID(ctx context.Context, caller Caller, id int) (*Client, error)
	List(ctx context.Context, caller Caller) ([]Client, error)
	Create(ctx context.Context, client *Client) (*Client, error)
	Update(ctx context.Context, client *Client) error
	Tombstone(ctx context.Context, id int, by string, at time.Time) error
	Restore(ctx context.Context, id int) error
}

type clientRepository struct {
	db  database.DB
	log logger.Logger
}

func NewClientRepository(db database.DB) ClientRepository {
	return &clientRepository{
		db:  db,
		log: logger.New("clientRepository"),
	}
}

func (r *clientRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQL.WithContext(ctx)
}

// scoped applies both visibility predicates: tombstone and tenant scope.
func (r *clientRepository) scoped(ctx context.Context, caller Caller) *gorm.DB {
	query := r.getDB(ctx).Model(&Client{})
	if !caller.WantsDeleted() {
		query = query.Where("clients.deleted_at IS NULL")
	}
	if !caller.AllBusinesses() {
		query = query.Where("clients.business_id = ?", caller.BusinessID)
	}
	return query
}

func (r *clientRepository) GetByID(ctx context.Context, caller Caller, id int) (*Client, error) {
	log := r.log.Function("GetByID")

	var client Client
	if err := r.scoped(ctx, caller).First(&client, "clients.id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get client by ID", translateError(err), "id", id)
	}

	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, caller Caller) ([]Client, error) {
	log := r.log.Function("List")

	var clients []Client
	if err := r.scoped(ctx, caller).Order("clients.name").Find(&clients).Error; err != nil {
		return nil, log.Err("failed to list clients", err)
	}

	return clients, nil
}

func (r *clientRepository) Create(ctx context.Context, client *Client) (*Client, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(client).Error; err != nil {
		return nil, log.Err("failed to create client", translateError(err), "name", client.Name)
	}

	return client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *Client) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(client).Error; err != nil {
		return log.Err("failed to update client", translateError(err), "id", client.ID)
	}

	return nil
}

func (r *clientRepository) Tombstone(ctx context.Context, id int, by string, at time.Time) error {
	log := r.log.Function("Tombstone")

	result := r.getDB(ctx).Model(&Client{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": at, "deleted_by": by})
	if result.Error != nil {
		return log.Err("failed to tombstone client", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("client not found or already deleted", ErrNotFound, "id", id)
	}

	return nil
}

func (r *clientRepository) Restore(ctx context.Context, id int) error {
	log := r.log.Function("Restore")

	result := r.getDB(ctx).Model(&Client{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]any{"deleted_at": nil, "deleted_by": nil})
	if result.Error != nil {
		return log.Err("failed to restore client", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("client has no tombstone", ErrNotDeleted, "id", id)
	}

	return nil
}
