package listings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
	pkgerrors "github.com/farmlink-co/farmlink-backend/pkg/errors"
)

// Service exposes farmer listing management.
type Service interface {
	Create(ctx context.Context, input CreateListingInput) (*models.FarmerListing, error)
	ListForFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.FarmerListing, error)
	Update(ctx context.Context, farmerID, listingID uuid.UUID, input UpdateListingInput) (*models.FarmerListing, error)
	Delete(ctx context.Context, farmerID, listingID uuid.UUID) error
}

type catalogFinder interface {
	FindEntry(ctx context.Context, id uuid.UUID) (*models.CatalogEntry, error)
}

type service struct {
	repo    Repository
	catalog catalogFinder
}

// NewService builds a listings service.
func NewService(repo Repository, catalog catalogFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog finder required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

func (s *service) Create(ctx context.Context, input CreateListingInput) (*models.FarmerListing, error) {
	if input.FarmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.CatalogID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog id required")
	}
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	if input.QuantityAvailable < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown unit")
	}

	if _, err := s.catalog.FindEntry(ctx, input.CatalogID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog entry")
	}

	listing := &models.FarmerListing{
		FarmerID:          input.FarmerID,
		CatalogID:         input.CatalogID,
		Price:             input.Price,
		QuantityAvailable: input.QuantityAvailable,
		Unit:              input.Unit,
	}
	created, err := s.repo.Create(ctx, listing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing")
	}
	return created, nil
}

func (s *service) ListForFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.FarmerListing, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	found, err := s.repo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings")
	}
	return found, nil
}

func (s *service) Update(ctx context.Context, farmerID, listingID uuid.UUID, input UpdateListingInput) (*models.FarmerListing, error) {
	listing, err := s.loadOwned(ctx, farmerID, listingID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
		}
		updates["price"] = *input.Price
	}
	if input.QuantityAvailable != nil {
		if *input.QuantityAvailable < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		updates["quantity_available"] = *input.QuantityAvailable
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown listing status")
		}
		updates["status"] = *input.Status
	}
	if len(updates) == 0 {
		return listing, nil
	}

	if err := s.repo.Update(ctx, listing.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update listing")
	}

	updated, err := s.repo.Find(ctx, listing.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload listing")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, farmerID, listingID uuid.UUID) error {
	listing, err := s.loadOwned(ctx, farmerID, listingID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, listing.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete listing")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, farmerID, listingID uuid.UUID) (*models.FarmerListing, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if listingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}

	listing, err := s.repo.Find(ctx, listingID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	if listing.FarmerID != farmerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing does not belong to farmer")
	}
	return listing, nil
}
