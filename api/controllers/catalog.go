package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/farmlink-co/farmlink-backend/api/responses"
	"github.com/farmlink-co/farmlink-backend/api/validators"
	"github.com/farmlink-co/farmlink-backend/internal/catalog"
	pkgerrors "github.com/farmlink-co/farmlink-backend/pkg/errors"
	"github.com/farmlink-co/farmlink-backend/pkg/logger"
	"github.com/farmlink-co/farmlink-backend/pkg/pagination"
)

// CatalogList returns the paginated public catalog, optionally filtered by category.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		category := strings.TrimSpace(r.URL.Query().Get("category"))

		list, err := svc.ListEntries(r.Context(), params, category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CatalogListings returns the active, in-stock listings for one catalog entry.
func CatalogListings(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalogID, err := parseUUIDParam(r, "catalogId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listings, err := svc.ListListings(r.Context(), catalogID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"listings": listings})
	}
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter required").
			WithDetails(map[string]any{"field": name})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identifier").
			WithDetails(map[string]any{"field": name})
	}
	return id, nil
}
