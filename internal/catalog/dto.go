package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmlink-co/farmlink-backend/pkg/enums"
)

// EntrySummary is the catalog row exposed on the public browse endpoint.
type EntrySummary struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	StandardUnit enums.Unit `json:"standard_unit"`
	Description  *string    `json:"description,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// EntryList wraps the paginated catalog entries plus the next page cursor.
type EntryList struct {
	Entries    []EntrySummary `json:"entries"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// ListingSummary is one farmer's active offer for a catalog entry.
type ListingSummary struct {
	ID                uuid.UUID       `json:"id"`
	FarmerID          uuid.UUID       `json:"farmer_id"`
	Price             decimal.Decimal `json:"price"`
	QuantityAvailable int             `json:"quantity_available"`
	Unit              enums.Unit      `json:"unit"`
}
