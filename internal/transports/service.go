package transports

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
	pkgerrors "github.com/farmlink-co/farmlink-backend/pkg/errors"
)

// Service exposes transport provider directory and vehicle management.
type Service interface {
	ListProviders(ctx context.Context) ([]models.TransportProvider, error)
	ProviderForUser(ctx context.Context, userID uuid.UUID) (*models.TransportProvider, error)
	ListVehiclesForUser(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error)
	RegisterVehicle(ctx context.Context, userID uuid.UUID, input RegisterVehicleInput) (*models.Vehicle, error)
}

type service struct {
	repo Repository
}

// NewService builds a transports service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transports repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProviders(ctx context.Context) ([]models.TransportProvider, error) {
	providers, err := s.repo.ListProviders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transport providers")
	}
	return providers, nil
}

// ProviderForUser resolves the provider profile a transport user operates
// under. Transport endpoints are keyed by this profile, not the user row.
func (s *service) ProviderForUser(ctx context.Context, userID uuid.UUID) (*models.TransportProvider, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	provider, err := s.repo.FindProviderByUser(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transport profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transport profile")
	}
	return provider, nil
}

func (s *service) ListVehiclesForUser(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error) {
	provider, err := s.ProviderForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.repo.ListVehicles(ctx, provider.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	return vehicles, nil
}

func (s *service) RegisterVehicle(ctx context.Context, userID uuid.UUID, input RegisterVehicleInput) (*models.Vehicle, error) {
	provider, err := s.ProviderForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.VehicleType) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle type required")
	}
	if strings.TrimSpace(input.VehicleNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle number required")
	}
	if strings.TrimSpace(input.LicenseNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "license number required")
	}
	if input.PricePerKm.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per km cannot be negative")
	}
	if !input.IsOwner && (input.OwnerDetails == nil || strings.TrimSpace(*input.OwnerDetails) == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner details required for non-owned vehicles")
	}

	vehicle := &models.Vehicle{
		TransportID:   provider.ID,
		VehicleType:   strings.TrimSpace(input.VehicleType),
		VehicleNumber: strings.TrimSpace(input.VehicleNumber),
		LicenseNumber: strings.TrimSpace(input.LicenseNumber),
		IsOwner:       input.IsOwner,
		OwnerDetails:  input.OwnerDetails,
		PricePerKm:    input.PricePerKm,
	}
	created, err := s.repo.CreateVehicle(ctx, vehicle)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vehicle")
	}
	return created, nil
}
