package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/farmlink-co/farmlink-backend/api/responses"
	"github.com/farmlink-co/farmlink-backend/api/validators"
	"github.com/farmlink-co/farmlink-backend/internal/deliveries"
	"github.com/farmlink-co/farmlink-backend/internal/transports"
	"github.com/farmlink-co/farmlink-backend/pkg/enums"
	pkgerrors "github.com/farmlink-co/farmlink-backend/pkg/errors"
	"github.com/farmlink-co/farmlink-backend/pkg/logger"
)

// TransportDeliveryList returns the caller's assigned deliveries.
func TransportDeliveryList(svc deliveries.Service, transportsSvc transports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		provider, err := transportsSvc.ProviderForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForTransport(r.Context(), provider.ID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type updateDeliveryRequest struct {
	Status       string  `json:"status" validate:"required"`
	SpecialNotes *string `json:"special_notes,omitempty"`
}

// TransportDeliveryUpdate advances the status of an owned delivery.
func TransportDeliveryUpdate(svc deliveries.Service, transportsSvc transports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		provider, err := transportsSvc.ProviderForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deliveryID, err := parseUUIDParam(r, "deliveryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateDeliveryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseDeliveryStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown delivery status"))
			return
		}

		delivery, err := svc.UpdateStatus(r.Context(), deliveries.UpdateStatusInput{
			DeliveryID:   deliveryID,
			TransportID:  provider.ID,
			Status:       status,
			SpecialNotes: req.SpecialNotes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, delivery)
	}
}

// TransportVehicleList returns the caller's registered vehicles.
func TransportVehicleList(svc transports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicles, err := svc.ListVehiclesForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"vehicles": vehicles})
	}
}

type registerVehicleRequest struct {
	VehicleType   string  `json:"vehicle_type" validate:"required"`
	VehicleNumber string  `json:"vehicle_number" validate:"required"`
	LicenseNumber string  `json:"license_number" validate:"required"`
	IsOwner       bool    `json:"is_owner"`
	OwnerDetails  *string `json:"owner_details,omitempty"`
	PricePerKm    string  `json:"price_per_km" validate:"required"`
}

// TransportVehicleRegister adds a vehicle to the caller's fleet.
func TransportVehicleRegister(svc transports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req registerVehicleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		price, err := decimal.NewFromString(req.PricePerKm)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price per km"))
			return
		}

		vehicle, err := svc.RegisterVehicle(r.Context(), userID, transports.RegisterVehicleInput{
			VehicleType:   req.VehicleType,
			VehicleNumber: req.VehicleNumber,
			LicenseNumber: req.LicenseNumber,
			IsOwner:       req.IsOwner,
			OwnerDetails:  req.OwnerDetails,
			PricePerKm:    price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vehicle)
	}
}
