package listings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
)

// Repository defines persistence operations for farmer listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, listing *models.FarmerListing) (*models.FarmerListing, error)
	Find(ctx context.Context, id uuid.UUID) (*models.FarmerListing, error)
	FindMany(ctx context.Context, ids []uuid.UUID) ([]models.FarmerListing, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.FarmerListing, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}
