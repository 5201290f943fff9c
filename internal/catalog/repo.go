package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
	"github.com/farmlink-co/farmlink-backend/pkg/enums"
	"github.com/farmlink-co/farmlink-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListEntries(ctx context.Context, params pagination.Params, category string) (*EntryList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.CatalogEntry{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var entries []models.CatalogEntry
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}

	list := &EntryList{}
	if len(entries) > normalized {
		entries = entries[:normalized]
		last := entries[len(entries)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	list.Entries = make([]EntrySummary, 0, len(entries))
	for _, e := range entries {
		list.Entries = append(list.Entries, EntrySummary{
			ID:           e.ID,
			Name:         e.Name,
			Category:     e.Category,
			StandardUnit: e.StandardUnit,
			Description:  e.Description,
			CreatedAt:    e.CreatedAt,
		})
	}
	return list, nil
}

func (r *repository) FindEntry(ctx context.Context, id uuid.UUID) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListActiveListings(ctx context.Context, catalogID uuid.UUID) ([]models.FarmerListing, error) {
	var listings []models.FarmerListing
	err := r.db.WithContext(ctx).
		Where("catalog_id = ? AND status = ? AND quantity_available > 0", catalogID, enums.ListingStatusActive).
		Order("price ASC, created_at ASC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
