package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmlink-co/farmlink-backend/pkg/enums"
)

// FarmerListing is one farmer's priced, quantified offer of a catalog entry.
// QuantityAvailable is the only shared mutable resource in the system; it is
// only ever decremented through a conditional update.
type FarmerListing struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FarmerID          uuid.UUID           `gorm:"column:farmer_id;type:uuid;not null;index"`
	CatalogID         uuid.UUID           `gorm:"column:catalog_id;type:uuid;not null;index"`
	Price             decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	QuantityAvailable int                 `gorm:"column:quantity_available;not null;default:0"`
	Unit              enums.Unit          `gorm:"column:unit;type:text;not null"`
	Status            enums.ListingStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Catalog           *CatalogEntry       `gorm:"foreignKey:CatalogID"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
