package transports

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a transports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListProviders(ctx context.Context) ([]models.TransportProvider, error) {
	var providers []models.TransportProvider
	err := r.db.WithContext(ctx).
		Preload("Vehicles").
		Order("company_name ASC").
		Find(&providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *repository) FindProvider(ctx context.Context, providerID uuid.UUID) (*models.TransportProvider, error) {
	var provider models.TransportProvider
	err := r.db.WithContext(ctx).
		Where("id = ?", providerID).
		First(&provider).Error
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *repository) FindProviderByUser(ctx context.Context, userID uuid.UUID) (*models.TransportProvider, error) {
	var provider models.TransportProvider
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&provider).Error
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *repository) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if err := r.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (r *repository) ListVehicles(ctx context.Context, providerID uuid.UUID) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Where("transport_id = ?", providerID).
		Order("created_at DESC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *repository) FindVehicle(ctx context.Context, vehicleID uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).
		Where("id = ?", vehicleID).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}
