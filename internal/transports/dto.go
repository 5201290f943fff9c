package transports

import (
	"github.com/shopspring/decimal"
)

// RegisterVehicleInput captures a transport provider's new vehicle.
type RegisterVehicleInput struct {
	VehicleType   string
	VehicleNumber string
	LicenseNumber string
	IsOwner       bool
	OwnerDetails  *string
	PricePerKm    decimal.Decimal
}
