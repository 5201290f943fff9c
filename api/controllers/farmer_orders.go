package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/farmlink-co/farmlink-backend/api/responses"
	"github.com/farmlink-co/farmlink-backend/api/validators"
	"github.com/farmlink-co/farmlink-backend/internal/deliveries"
	"github.com/farmlink-co/farmlink-backend/internal/orders"
	"github.com/farmlink-co/farmlink-backend/internal/transports"
	"github.com/farmlink-co/farmlink-backend/pkg/logger"
)

// FarmerOrderList returns orders that contain the caller's items, with the
// farmer's own subtotal per order.
func FarmerOrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForFarmer(r.Context(), farmerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// FarmerOrderDetail returns the farmer-scoped projection of one order.
func FarmerOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetForFarmer(r.Context(), farmerID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type assignTransportRequest struct {
	TransportID  uuid.UUID `json:"transport_id" validate:"required"`
	VehicleID    uuid.UUID `json:"vehicle_id" validate:"required"`
	SpecialNotes *string   `json:"special_notes,omitempty"`
}

// FarmerAssignTransport creates the delivery for the caller's share of an order.
func FarmerAssignTransport(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req assignTransportRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		delivery, err := svc.AssignTransport(r.Context(), deliveries.AssignTransportInput{
			OrderID:      orderID,
			FarmerID:     farmerID,
			TransportID:  req.TransportID,
			VehicleID:    req.VehicleID,
			SpecialNotes: req.SpecialNotes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, delivery)
	}
}

// FarmerTransportProviders lists transport companies with their vehicles so
// farmers can pick one when dispatching.
func FarmerTransportProviders(svc transports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providers, err := svc.ListProviders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"providers": providers})
	}
}
