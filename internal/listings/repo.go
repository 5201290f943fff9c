package listings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a listings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, listing *models.FarmerListing) (*models.FarmerListing, error) {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.FarmerListing, error) {
	var listing models.FarmerListing
	err := r.db.WithContext(ctx).
		Preload("Catalog").
		Where("id = ?", id).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *repository) FindMany(ctx context.Context, ids []uuid.UUID) ([]models.FarmerListing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var listings []models.FarmerListing
	err := r.db.WithContext(ctx).
		Preload("Catalog").
		Where("id IN ?", ids).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *repository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.FarmerListing, error) {
	var listings []models.FarmerListing
	err := r.db.WithContext(ctx).
		Preload("Catalog").
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.FarmerListing{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.FarmerListing{}).Error
}
