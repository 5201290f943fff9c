package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmlink-co/farmlink-backend/pkg/enums"
)

// OrderItem snapshots one listing's contribution to a placed order. Name,
// unit price, and unit are copied at creation so later listing edits never
// rewrite history.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ListingID   uuid.UUID       `gorm:"column:listing_id;type:uuid;not null"`
	FarmerID    uuid.UUID       `gorm:"column:farmer_id;type:uuid;not null;index"`
	CatalogID   uuid.UUID       `gorm:"column:catalog_id;type:uuid;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	WeightUnit  enums.Unit      `gorm:"column:weight_unit;type:text;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
