package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercaditoapp/mercadito-backend/api/middleware"
	"github.com/mercaditoapp/mercadito-backend/api/responses"
	"github.com/mercaditoapp/mercadito-backend/api/validators"
	"github.com/mercaditoapp/mercadito-backend/internal/commissions"
	"github.com/mercaditoapp/mercadito-backend/internal/settings"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
	"github.com/mercaditoapp/mercadito-backend/pkg/logger"
)

const maxCommissionReasonLen = 500

func actorID(r *http.Request) *uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

type createOverrideRequest struct {
	SellerID      uuid.UUID        `json:"seller_id" validate:"required"`
	Percentage    *decimal.Decimal `json:"percentage"`
	FixedAmount   *decimal.Decimal `json:"fixed_amount"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
	Reason        string           `json:"reason"`
}

// CreateCommissionOverride replaces the seller's active override, if any.
func CreateCommissionOverride(svc commissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOverrideRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		override, err := svc.Create(r.Context(), commissions.CreateParams{
			SellerID:      req.SellerID,
			Percentage:    req.Percentage,
			FixedAmount:   req.FixedAmount,
			TaxPercentage: req.TaxPercentage,
			Reason:        validators.SanitizeString(req.Reason, maxCommissionReasonLen),
			CreatedBy:     actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, override)
	}
}

func GetCommissionOverride(svc commissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overrideID, err := uuid.Parse(chi.URLParam(r, "overrideId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid override id"))
			return
		}

		override, err := svc.Get(r.Context(), overrideID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, override)
	}
}

func ListCommissionOverrides(svc commissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := commissions.ListParams{
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			Search: strings.TrimSpace(r.URL.Query().Get("q")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("sellerId")); raw != "" {
			sellerID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid seller id"))
				return
			}
			params.SellerID = &sellerID
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("activeOnly")); raw != "" {
			value, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid activeOnly value"))
				return
			}
			params.ActiveOnly = value
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.Limit = limit

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type updateOverrideRequest struct {
	Percentage    *decimal.Decimal `json:"percentage"`
	FixedAmount   *decimal.Decimal `json:"fixed_amount"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
	Reason        *string          `json:"reason"`
}

func UpdateCommissionOverride(svc commissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overrideID, err := uuid.Parse(chi.URLParam(r, "overrideId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid override id"))
			return
		}

		var req updateOverrideRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if req.Reason != nil {
			trimmed := validators.SanitizeString(*req.Reason, maxCommissionReasonLen)
			req.Reason = &trimmed
		}

		override, err := svc.Update(r.Context(), overrideID, commissions.UpdateParams{
			Percentage:    req.Percentage,
			FixedAmount:   req.FixedAmount,
			TaxPercentage: req.TaxPercentage,
			Reason:        req.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, override)
	}
}

func DeleteCommissionOverride(svc commissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overrideID, err := uuid.Parse(chi.URLParam(r, "overrideId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid override id"))
			return
		}

		if err := svc.Delete(r.Context(), overrideID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

type bulkApplyRequest struct {
	SellerIDs     []uuid.UUID      `json:"seller_ids"`
	AllSellers    bool             `json:"all_sellers"`
	Percentage    *decimal.Decimal `json:"percentage"`
	FixedAmount   *decimal.Decimal `json:"fixed_amount"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
	Reason        string           `json:"reason"`
}

// BulkApplyCommission applies one override configuration to many sellers and
// reports per-seller failures instead of aborting midway.
func BulkApplyCommission(svc commissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkApplyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.BulkApply(r.Context(), commissions.BulkApplyParams{
			SellerIDs:     req.SellerIDs,
			AllSellers:    req.AllSellers,
			Percentage:    req.Percentage,
			FixedAmount:   req.FixedAmount,
			TaxPercentage: req.TaxPercentage,
			Reason:        validators.SanitizeString(req.Reason, maxCommissionReasonLen),
			CreatedBy:     actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ResolveEffectiveCommission reports the rates a seller settles at, merging
// the active override over the platform defaults field by field.
func ResolveEffectiveCommission(svc commissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := uuid.Parse(chi.URLParam(r, "sellerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid seller id"))
			return
		}

		effective, err := svc.ResolveEffective(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// An optional sale amount prices the resolved commission in the same call.
		if raw := strings.TrimSpace(r.URL.Query().Get("amount")); raw != "" {
			amount, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
				return
			}
			quote, err := svc.QuoteForSeller(r.Context(), sellerID, amount)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, map[string]any{"effective": effective, "quote": quote})
			return
		}

		responses.WriteSuccess(w, effective)
	}
}

func GetCommissionDefaults(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defaults, err := svc.GetCommissionDefaults(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, defaults)
	}
}

type updateDefaultsRequest struct {
	Percentage    decimal.Decimal `json:"percentage"`
	FixedAmount   decimal.Decimal `json:"fixed_amount"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
}

func UpdateCommissionDefaults(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateDefaultsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		defaults := settings.CommissionDefaults{
			Percentage:    req.Percentage,
			FixedAmount:   req.FixedAmount,
			TaxPercentage: req.TaxPercentage,
		}
		if err := svc.UpdateCommissionDefaults(r.Context(), defaults); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, defaults)
	}
}
