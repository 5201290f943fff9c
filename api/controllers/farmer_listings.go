package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/farmlink-co/farmlink-backend/api/responses"
	"github.com/farmlink-co/farmlink-backend/api/validators"
	"github.com/farmlink-co/farmlink-backend/internal/listings"
	"github.com/farmlink-co/farmlink-backend/pkg/enums"
	pkgerrors "github.com/farmlink-co/farmlink-backend/pkg/errors"
	"github.com/farmlink-co/farmlink-backend/pkg/logger"
	"github.com/google/uuid"
)

type createListingRequest struct {
	CatalogID         uuid.UUID `json:"catalog_id" validate:"required"`
	Price             string    `json:"price" validate:"required"`
	QuantityAvailable int       `json:"quantity_available" validate:"min=0"`
	Unit              string    `json:"unit" validate:"required"`
}

type updateListingRequest struct {
	Price             *string `json:"price,omitempty"`
	QuantityAvailable *int    `json:"quantity_available,omitempty"`
	Status            *string `json:"status,omitempty"`
}

// FarmerListingCreate publishes a new offer for a catalog entry.
func FarmerListingCreate(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createListingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
			return
		}
		unit, err := enums.ParseUnit(req.Unit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown unit"))
			return
		}

		listing, err := svc.Create(r.Context(), listings.CreateListingInput{
			FarmerID:          farmerID,
			CatalogID:         req.CatalogID,
			Price:             price,
			QuantityAvailable: req.QuantityAvailable,
			Unit:              unit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

// FarmerListingList returns the caller's listings.
func FarmerListingList(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.ListForFarmer(r.Context(), farmerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"listings": found})
	}
}

// FarmerListingUpdate patches price, quantity, or status on an owned listing.
func FarmerListingUpdate(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listingID, err := parseUUIDParam(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateListingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := listings.UpdateListingInput{QuantityAvailable: req.QuantityAvailable}
		if req.Price != nil {
			price, err := decimal.NewFromString(*req.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
				return
			}
			input.Price = &price
		}
		if req.Status != nil {
			status, err := enums.ParseListingStatus(*req.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown listing status"))
				return
			}
			input.Status = &status
		}

		listing, err := svc.Update(r.Context(), farmerID, listingID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

// FarmerListingDelete removes an owned listing.
func FarmerListingDelete(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listingID, err := parseUUIDParam(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), farmerID, listingID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
