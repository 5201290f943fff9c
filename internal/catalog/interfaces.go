package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
	"github.com/farmlink-co/farmlink-backend/pkg/pagination"
)

// Repository defines read operations over the product catalog.
type Repository interface {
	ListEntries(ctx context.Context, params pagination.Params, category string) (*EntryList, error)
	FindEntry(ctx context.Context, id uuid.UUID) (*models.CatalogEntry, error)
	ListActiveListings(ctx context.Context, catalogID uuid.UUID) ([]models.FarmerListing, error)
}
