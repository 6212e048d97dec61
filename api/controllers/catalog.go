package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/api/responses"
	"github.com/pzfresh/pzfresh-backend/api/validators"
	"github.com/pzfresh/pzfresh-backend/internal/catalog"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
	"github.com/pzfresh/pzfresh-backend/pkg/logger"
)

type createProductRequest struct {
	Name              string          `json:"name" validate:"required"`
	Variety           string          `json:"variety"`
	Category          string          `json:"category"`
	Unit              string          `json:"unit" validate:"required"`
	DefaultPrice      decimal.Decimal `json:"default_price" validate:"required"`
	CO2SavingsPerUnit decimal.Decimal `json:"co2_savings_per_unit"`
}

// CreateProduct registers a product under the calling supplier.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unit, err := enums.ParseProductUnit(req.Unit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit"))
			return
		}

		product, err := svc.CreateProduct(r.Context(), supplierID, catalog.CreateProductInput{
			Name:              req.Name,
			Variety:           req.Variety,
			Category:          req.Category,
			Unit:              unit,
			DefaultPrice:      req.DefaultPrice,
			CO2SavingsPerUnit: req.CO2SavingsPerUnit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updatePricingRequest struct {
	DefaultPrice *decimal.Decimal `json:"default_price,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
}

// UpdateProductPricing edits a product's price or unit. Only the owning
// supplier may do this.
func UpdateProductPricing(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updatePricingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdatePricingInput{DefaultPrice: req.DefaultPrice}
		if req.Unit != nil {
			unit, err := enums.ParseProductUnit(*req.Unit)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit"))
				return
			}
			input.Unit = &unit
		}

		product, err := svc.UpdatePricing(r.Context(), supplierID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ListProducts returns the calling supplier's products.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListProducts(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

type uploadLotRequest struct {
	ProductID         uuid.UUID        `json:"product_id" validate:"required"`
	Quantity          decimal.Decimal  `json:"quantity" validate:"required"`
	HarvestDate       *time.Time       `json:"harvest_date,omitempty"`
	ExpiryDate        *time.Time       `json:"expiry_date,omitempty"`
	DiscountPrice     *decimal.Decimal `json:"discount_price,omitempty"`
	DiscountAfterDays *int             `json:"discount_after_days,omitempty"`
	LogisticsPrice    *decimal.Decimal `json:"logistics_price,omitempty"`
}

// UploadLot records a new inventory lot for the calling supplier.
func UploadLot(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req uploadLotRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lot, err := svc.UploadLot(r.Context(), supplierID, catalog.UploadLotInput{
			ProductID:         req.ProductID,
			Quantity:          req.Quantity,
			HarvestDate:       req.HarvestDate,
			ExpiryDate:        req.ExpiryDate,
			DiscountPrice:     req.DiscountPrice,
			DiscountAfterDays: req.DiscountAfterDays,
			LogisticsPrice:    req.LogisticsPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, lot)
	}
}

// ReserveLot moves an available lot to reserved.
func ReserveLot(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return lotTransition(logg, func(r *http.Request, supplierID, lotID uuid.UUID) (*catalog.LotDTO, error) {
		return svc.MarkLotReserved(r.Context(), supplierID, lotID)
	})
}

// DepleteLot moves a lot to depleted once its stock is gone.
func DepleteLot(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return lotTransition(logg, func(r *http.Request, supplierID, lotID uuid.UUID) (*catalog.LotDTO, error) {
		return svc.MarkLotDepleted(r.Context(), supplierID, lotID)
	})
}

func lotTransition(logg *logger.Logger, apply func(r *http.Request, supplierID, lotID uuid.UUID) (*catalog.LotDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lotID, err := validators.ParsePathUUID(chi.URLParam(r, "lotId"), "lot id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lot, err := apply(r, supplierID, lotID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lot)
	}
}

// ListLots returns the calling supplier's inventory lots.
func ListLots(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lots, err := svc.ListSupplierLots(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lots)
	}
}
