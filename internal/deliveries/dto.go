package deliveries

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
	"github.com/farmlink-co/farmlink-backend/pkg/enums"
)

// AssignTransportInput captures a farmer's transport assignment for their
// portion of an order.
type AssignTransportInput struct {
	OrderID      uuid.UUID
	FarmerID     uuid.UUID
	TransportID  uuid.UUID
	VehicleID    uuid.UUID
	SpecialNotes *string
}

// UpdateStatusInput advances one delivery through its status chain.
type UpdateStatusInput struct {
	DeliveryID   uuid.UUID
	TransportID  uuid.UUID
	Status       enums.DeliveryStatus
	SpecialNotes *string
}

// DeliverySummary is the transport dashboard row.
type DeliverySummary struct {
	ID           uuid.UUID            `json:"id"`
	OrderID      uuid.UUID            `json:"order_id"`
	OrderNumber  string               `json:"order_number"`
	Status       enums.DeliveryStatus `json:"status"`
	AssignedDate time.Time            `json:"assigned_date"`
	SpecialNotes *string              `json:"special_notes,omitempty"`
	DeliveryCity string               `json:"delivery_city"`
	Vehicle      *models.Vehicle      `json:"vehicle,omitempty"`
}

// DeliveryList wraps the paginated deliveries plus the next page cursor.
type DeliveryList struct {
	Deliveries []DeliverySummary `json:"deliveries"`
	NextCursor string            `json:"next_cursor,omitempty"`
}
