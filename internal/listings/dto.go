package listings

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmlink-co/farmlink-backend/pkg/enums"
)

// CreateListingInput captures a farmer's new offer for a catalog entry.
type CreateListingInput struct {
	FarmerID          uuid.UUID
	CatalogID         uuid.UUID
	Price             decimal.Decimal
	QuantityAvailable int
	Unit              enums.Unit
}

// UpdateListingInput carries the mutable listing fields. Nil means unchanged.
type UpdateListingInput struct {
	Price             *decimal.Decimal
	QuantityAvailable *int
	Status            *enums.ListingStatus
}
