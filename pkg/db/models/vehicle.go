package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vehicle belongs to a transport provider and is referenced by deliveries.
type Vehicle struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TransportID   uuid.UUID       `gorm:"column:transport_id;type:uuid;not null;index"`
	VehicleType   string          `gorm:"column:vehicle_type;not null"`
	VehicleNumber string          `gorm:"column:vehicle_number;not null"`
	LicenseNumber string          `gorm:"column:license_number;not null"`
	IsOwner       bool            `gorm:"column:is_owner;not null;default:true"`
	OwnerDetails  *string         `gorm:"column:owner_details"`
	PricePerKm    decimal.Decimal `gorm:"column:price_per_km;type:numeric(12,2);not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
