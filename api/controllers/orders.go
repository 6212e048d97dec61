package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/api/responses"
	"github.com/pzfresh/pzfresh-backend/api/validators"
	"github.com/pzfresh/pzfresh-backend/internal/orders"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
	"github.com/pzfresh/pzfresh-backend/pkg/logger"
	"github.com/pzfresh/pzfresh-backend/pkg/pagination"
)

type createOrderItemRequest struct {
	ProductID    uuid.UUID       `json:"product_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity" validate:"required"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

type createOrderRequest struct {
	SellerID    uuid.UUID                `json:"seller_id" validate:"required"`
	Items       []createOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	SourceLotID *uuid.UUID               `json:"source_lot_id,omitempty"`
}

// CreateOrder opens an order from the calling buyer against a seller.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.CreateOrderInput{
			BuyerID:     buyerID,
			SellerID:    req.SellerID,
			SourceLotID: req.SourceLotID,
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, orders.OrderItemInput{
				ProductID:    item.ProductID,
				Quantity:     item.Quantity,
				PricePerUnit: item.PricePerUnit,
			})
		}

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListOrders returns the caller's orders from the buyer or seller perspective.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		view := strings.TrimSpace(r.URL.Query().Get("view"))
		switch view {
		case "", "buyer":
			page, err := svc.ListForBuyer(r.Context(), actorID, params)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, page)
		case "seller":
			page, err := svc.ListForSeller(r.Context(), actorID, params)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, page)
		default:
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "view must be buyer or seller"))
		}
	}
}

// GetOrder returns a single order snapshot.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AcceptOrder confirms a pending order.
func AcceptOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Accept(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type packOrderRequest struct {
	PackerID string `json:"packer_id" validate:"required"`
}

// PackOrder marks a confirmed order as ready for delivery.
func PackOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req packOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Pack(r.Context(), orderID, req.PackerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type dispatchOrderRequest struct {
	DriverID string `json:"driver_id" validate:"required"`
}

// DispatchOrder ships a packed order with the named driver.
func DispatchOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req dispatchOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Dispatch(r.Context(), orderID, req.DriverID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type deliverOrderRequest struct {
	DriverID      string `json:"driver_id"`
	ProofPhotoRef string `json:"proof_photo_ref" validate:"required"`
}

// DeliverOrder completes a shipped order with proof of delivery.
func DeliverOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req deliverOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Deliver(r.Context(), orderID, req.DriverID, req.ProofPhotoRef)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels an order unless it has already been delivered.
// Repeating a cancel is a no-op.
func CancelOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req cancelOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), orderID, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type reportIssueRequest struct {
	Type        string `json:"type" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// ReportOrderIssue attaches an issue to a delivered order.
func ReportOrderIssue(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req reportIssueRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		issueType, err := enums.ParseIssueType(req.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid issue type"))
			return
		}

		order, err := svc.ReportIssue(r.Context(), orders.ReportIssueInput{
			OrderID:     orderID,
			Type:        issueType,
			Description: req.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
