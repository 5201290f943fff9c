package transports

import (
	"context"

	"github.com/google/uuid"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
)

// Repository defines persistence operations for transport providers and
// their vehicles.
type Repository interface {
	ListProviders(ctx context.Context) ([]models.TransportProvider, error)
	FindProvider(ctx context.Context, providerID uuid.UUID) (*models.TransportProvider, error)
	FindProviderByUser(ctx context.Context, userID uuid.UUID) (*models.TransportProvider, error)
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, providerID uuid.UUID) ([]models.Vehicle, error)
	FindVehicle(ctx context.Context, vehicleID uuid.UUID) (*models.Vehicle, error)
}
