package deliveries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
	"github.com/farmlink-co/farmlink-backend/pkg/enums"
	"github.com/farmlink-co/farmlink-backend/pkg/pagination"
)

// Repository defines persistence operations for deliveries plus the order
// reads and status writes the assignment workflow needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, delivery *models.Delivery) (*models.Delivery, error)
	Find(ctx context.Context, deliveryID uuid.UUID) (*models.Delivery, error)
	FindByOrderAndFarmer(ctx context.Context, orderID, farmerID uuid.UUID) (*models.Delivery, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Delivery, error)
	ListByTransport(ctx context.Context, transportID uuid.UUID, params pagination.Params) (*DeliveryList, error)
	UpdateStatus(ctx context.Context, deliveryID uuid.UUID, status enums.DeliveryStatus, notes *string) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	CountFarmerItems(ctx context.Context, orderID, farmerID uuid.UUID) (int64, error)
	CountContributingFarmers(ctx context.Context, orderID uuid.UUID) (int64, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
}

// VehicleFinder resolves transport providers and their vehicles. Satisfied
// by the transports repository.
type VehicleFinder interface {
	FindProvider(ctx context.Context, providerID uuid.UUID) (*models.TransportProvider, error)
	FindVehicle(ctx context.Context, vehicleID uuid.UUID) (*models.Vehicle, error)
}
