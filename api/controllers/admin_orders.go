package controllers

import (
	"net/http"

	"github.com/farmlink-co/farmlink-backend/api/responses"
	"github.com/farmlink-co/farmlink-backend/api/validators"
	"github.com/farmlink-co/farmlink-backend/internal/orders"
	"github.com/farmlink-co/farmlink-backend/pkg/enums"
	pkgerrors "github.com/farmlink-co/farmlink-backend/pkg/errors"
	"github.com/farmlink-co/farmlink-backend/pkg/logger"
)

// AdminOrderList returns every order, filterable by status and date range.
func AdminOrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := orderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListAll(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type adminSetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrderSetStatus applies an admin override transition to an order.
// Illegal hops are still rejected.
func AdminOrderSetStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req adminSetStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status"))
			return
		}

		order, err := svc.AdminSetStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
