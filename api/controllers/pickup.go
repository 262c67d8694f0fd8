package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mercaditoapp/mercadito-backend/api/responses"
	"github.com/mercaditoapp/mercadito-backend/api/validators"
	"github.com/mercaditoapp/mercadito-backend/internal/pickup"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
	"github.com/mercaditoapp/mercadito-backend/pkg/logger"
)

type createPickupPointRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
}

func CreatePickupPoint(svc pickup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPickupPointRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		point, err := svc.Create(r.Context(), pickup.CreateParams{
			Name:    req.Name,
			Address: req.Address,
			City:    req.City,
			Country: req.Country,
			Phone:   req.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, point)
	}
}

// ListPickupPoints is the public directory. Only active points are returned
// unless the caller asks for all.
func ListPickupPoints(svc pickup.Service, logg *logger.Logger, includeInactive bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), pickup.ListParams{
			ActiveOnly: !includeInactive,
			City:       strings.TrimSpace(r.URL.Query().Get("city")),
			Limit:      limit,
			Cursor:     strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetPickupPoint(svc pickup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pointID, err := uuid.Parse(chi.URLParam(r, "pointId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pickup point id"))
			return
		}

		point, err := svc.Get(r.Context(), pointID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, point)
	}
}

type updatePickupPointRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Country *string `json:"country"`
	Phone   *string `json:"phone"`
	Active  *bool   `json:"active"`
}

func UpdatePickupPoint(svc pickup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pointID, err := uuid.Parse(chi.URLParam(r, "pointId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pickup point id"))
			return
		}

		var req updatePickupPointRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		point, err := svc.Update(r.Context(), pointID, pickup.UpdateParams{
			Name:    req.Name,
			Address: req.Address,
			City:    req.City,
			Country: req.Country,
			Phone:   req.Phone,
			Active:  req.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, point)
	}
}

func DeactivatePickupPoint(svc pickup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pointID, err := uuid.Parse(chi.URLParam(r, "pointId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pickup point id"))
			return
		}

		if err := svc.Deactivate(r.Context(), pointID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deactivated": true})
	}
}
