package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/api/responses"
	"github.com/pzfresh/pzfresh-backend/api/validators"
	"github.com/pzfresh/pzfresh-backend/internal/negotiation"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
	"github.com/pzfresh/pzfresh-backend/pkg/logger"
)

type requestItemPayload struct {
	ProductID    *uuid.UUID      `json:"product_id,omitempty"`
	ProductName  string          `json:"product_name" validate:"required"`
	Qty          decimal.Decimal `json:"qty" validate:"required"`
	InvoicePrice decimal.Decimal `json:"invoice_price" validate:"required"`
	TargetPrice  decimal.Decimal `json:"target_price" validate:"required"`
}

type createRequestRequest struct {
	SupplierID       uuid.UUID            `json:"supplier_id" validate:"required"`
	CustomerContext  string               `json:"customer_context" validate:"required"`
	CustomerLocation string               `json:"customer_location"`
	Items            []requestItemPayload `json:"items" validate:"required,min=1,dive"`
}

// CreatePriceRequest opens a price request for a supplier against a prospect.
func CreatePriceRequest(svc negotiation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequestRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := negotiation.CreateRequestInput{
			SupplierID:       req.SupplierID,
			CustomerContext:  req.CustomerContext,
			CustomerLocation: req.CustomerLocation,
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, negotiation.RequestItemInput{
				ProductID:    item.ProductID,
				ProductName:  item.ProductName,
				Qty:          item.Qty,
				InvoicePrice: item.InvoicePrice,
				TargetPrice:  item.TargetPrice,
			})
		}

		request, err := svc.CreateRequest(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

type quoteOfferPayload struct {
	ItemID       uuid.UUID       `json:"item_id" validate:"required"`
	OfferedPrice decimal.Decimal `json:"offered_price" validate:"required"`
}

type submitQuoteRequest struct {
	Offers []quoteOfferPayload `json:"offers" validate:"required,min=1,dive"`
}

// SubmitQuote records the supplier's offered prices for every item of a
// pending request. Partial quotes are rejected before anything is written.
func SubmitQuote(svc negotiation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParsePathUUID(chi.URLParam(r, "requestId"), "request id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req submitQuoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offers := make([]negotiation.QuoteOffer, 0, len(req.Offers))
		for _, offer := range req.Offers {
			offers = append(offers, negotiation.QuoteOffer{
				ItemID:       offer.ItemID,
				OfferedPrice: offer.OfferedPrice,
			})
		}

		request, err := svc.SubmitQuote(r.Context(), requestID, offers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

// FinalizeDeal marks a submitted request as won and creates its customer.
func FinalizeDeal(svc negotiation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParsePathUUID(chi.URLParam(r, "requestId"), "request id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.FinalizeDeal(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RejectDeal marks a submitted request as lost.
func RejectDeal(svc negotiation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParsePathUUID(chi.URLParam(r, "requestId"), "request id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.RejectDeal(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

type estimateAcceptanceRequest struct {
	ProductName  string          `json:"product_name"`
	InvoicePrice decimal.Decimal `json:"invoice_price" validate:"required"`
	TargetPrice  decimal.Decimal `json:"target_price" validate:"required"`
	OfferedPrice decimal.Decimal `json:"offered_price" validate:"required"`
}

// EstimateAcceptance returns an advisory win-probability for an offer. It
// never gates quote submission.
func EstimateAcceptance(svc negotiation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req estimateAcceptanceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		score, err := svc.EstimateAcceptance(r.Context(), negotiation.ScoreInput{
			ProductName:  req.ProductName,
			InvoicePrice: req.InvoicePrice,
			TargetPrice:  req.TargetPrice,
			OfferedPrice: req.OfferedPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, score)
	}
}

// GetPriceRequest returns a request with its items.
func GetPriceRequest(svc negotiation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParsePathUUID(chi.URLParam(r, "requestId"), "request id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.GetRequest(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

// ListPriceRequests returns the calling supplier's requests, optionally
// filtered by status.
func ListPriceRequests(svc negotiation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.RequestStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseRequestStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			status = &parsed
		}

		requests, err := svc.ListForSupplier(r.Context(), supplierID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, requests)
	}
}
