package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmlink-co/farmlink-backend/pkg/enums"
)

// Delivery is a transport assignment scoped to one farmer's contribution to
// an order. The (order_id, farmer_id) pair is unique: one assignment per
// contributing farmer.
type Delivery struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID            `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_deliveries_order_farmer"`
	FarmerID     uuid.UUID            `gorm:"column:farmer_id;type:uuid;not null;uniqueIndex:idx_deliveries_order_farmer"`
	TransportID  uuid.UUID            `gorm:"column:transport_id;type:uuid;not null;index"`
	VehicleID    uuid.UUID            `gorm:"column:vehicle_id;type:uuid;not null"`
	Status       enums.DeliveryStatus `gorm:"column:status;type:text;not null;default:'assigned'"`
	SpecialNotes *string              `gorm:"column:special_notes"`
	AssignedDate time.Time            `gorm:"column:assigned_date;not null"`
	Vehicle      *Vehicle             `gorm:"foreignKey:VehicleID"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
