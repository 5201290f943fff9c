package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/farmlink-co/farmlink-backend/pkg/errors"
	"github.com/farmlink-co/farmlink-backend/pkg/pagination"
)

// Service exposes the public catalog browse operations.
type Service interface {
	ListEntries(ctx context.Context, params pagination.Params, category string) (*EntryList, error)
	ListListings(ctx context.Context, catalogID uuid.UUID) ([]ListingSummary, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListEntries(ctx context.Context, params pagination.Params, category string) (*EntryList, error) {
	list, err := s.repo.ListEntries(ctx, params, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog entries")
	}
	return list, nil
}

func (s *service) ListListings(ctx context.Context, catalogID uuid.UUID) ([]ListingSummary, error) {
	if catalogID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog id required")
	}

	if _, err := s.repo.FindEntry(ctx, catalogID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog entry")
	}

	listings, err := s.repo.ListActiveListings(ctx, catalogID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active listings")
	}

	summaries := make([]ListingSummary, 0, len(listings))
	for _, l := range listings {
		summaries = append(summaries, ListingSummary{
			ID:                l.ID,
			FarmerID:          l.FarmerID,
			Price:             l.Price,
			QuantityAvailable: l.QuantityAvailable,
			Unit:              l.Unit,
		})
	}
	return summaries, nil
}
