package repositories

import (
	"context"
	"upkeep/internal/database"
	contextutil "upkeep/internal/context"
	. "upkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	GetByID(ctx context.Context, id int) (*Business, error)
	List(ctx context.Context) ([]Business, error)
	Create(ctx context.Context, business *Business) (*Business, error)
	Update(ctx context.Context, business *Business) error
}

type businessRepository struct {
	db  database.DB
	log logger.Logger
}

func NewBusinessRepository(db database.DB) BusinessRepository {
	return &businessRepository{
		db:  db,
		log: logger.New("businessRepository"),
	}
}

func (r *businessRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQL.WithContext(ctx)
}

func (r *businessRepository) GetByID(ctx context.Context, id int) (*Business, error) {
	log := r.log.Function("GetByID")

	var business Business
	if err := r.getDB(ctx).First(&business, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get business by ID", translateError(err), "id", id)
	}

	return &business, nil
}

func (r *businessRepository) List(ctx context.Context) ([]Business, error) {
	log := r.log.Function("List")

	var businesses []Business
	if err := r.getDB(ctx).Order("name").Find(&businesses).Error; err != nil {
		return nil, log.Err("failed to list businesses", err)
	}

	return businesses, nil
}

func (r *businessRepository) Create(ctx context.Context, business *Business) (*Business, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(business).Error; err != nil {
		return nil, log.Err("failed to create business", translateError(err), "name", business.Name)
	}

	return business, nil
}

func (r *businessRepository) Update(ctx context.Context, business *Business) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(business).Error; err != nil {
		return log.Err("failed to update business", translateError(err), "id", business.ID)
	}

	return nil
}
