package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/api/middleware"
	internalorders "github.com/pzfresh/pzfresh-backend/internal/orders"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
)

type stubOrdersService struct {
	internalorders.Service

	create func(ctx context.Context, input internalorders.CreateOrderInput) (*internalorders.CreateOrderResult, error)
	accept func(ctx context.Context, orderID uuid.UUID) (*internalorders.OrderDTO, error)
	cancel func(ctx context.Context, orderID uuid.UUID, reason string) (*internalorders.OrderDTO, error)
}

func (s *stubOrdersService) Create(ctx context.Context, input internalorders.CreateOrderInput) (*internalorders.CreateOrderResult, error) {
	return s.create(ctx, input)
}

func (s *stubOrdersService) Accept(ctx context.Context, orderID uuid.UUID) (*internalorders.OrderDTO, error) {
	return s.accept(ctx, orderID)
}

func (s *stubOrdersService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*internalorders.OrderDTO, error) {
	return s.cancel(ctx, orderID, reason)
}

func requestWithActor(method, target, actorID, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if actorID != "" {
		req = req.WithContext(middleware.WithActorID(req.Context(), actorID))
	}
	return req
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func decimalFromString(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", raw, err)
	}
	return d
}

func TestCreateOrderUsesActorAsBuyer(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	productID := uuid.New()

	var gotInput internalorders.CreateOrderInput
	svc := &stubOrdersService{
		create: func(_ context.Context, input internalorders.CreateOrderInput) (*internalorders.CreateOrderResult, error) {
			gotInput = input
			return &internalorders.CreateOrderResult{
				Order: &internalorders.OrderDTO{ID: uuid.New(), BuyerID: input.BuyerID, SellerID: input.SellerID, Status: enums.OrderStatusPending},
			}, nil
		},
	}

	body := `{"seller_id":"` + sellerID.String() + `","items":[{"product_id":"` + productID.String() + `","quantity":"10","price_per_unit":"2.25"}]}`
	req := requestWithActor(http.MethodPost, "/api/v1/orders", buyerID.String(), body)
	resp := httptest.NewRecorder()
	CreateOrder(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.BuyerID != buyerID {
		t.Fatalf("expected buyer %s from actor context, got %s", buyerID, gotInput.BuyerID)
	}
	if len(gotInput.Items) != 1 || !gotInput.Items[0].Quantity.Equal(decimalFromString(t, "10")) {
		t.Fatalf("unexpected items %+v", gotInput.Items)
	}
}

func TestCreateOrderRejectsUnknownFields(t *testing.T) {
	svc := &stubOrdersService{
		create: func(context.Context, internalorders.CreateOrderInput) (*internalorders.CreateOrderResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}

	body := `{"seller_id":"` + uuid.NewString() + `","items":[],"surprise":true}`
	req := requestWithActor(http.MethodPost, "/api/v1/orders", uuid.NewString(), body)
	resp := httptest.NewRecorder()
	CreateOrder(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateOrderRequiresActor(t *testing.T) {
	svc := &stubOrdersService{}
	req := requestWithActor(http.MethodPost, "/api/v1/orders", "", `{}`)
	resp := httptest.NewRecorder()
	CreateOrder(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAcceptOrderMapsStateConflict(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{
		accept: func(context.Context, uuid.UUID) (*internalorders.OrderDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot confirm from shipped").
				WithDetails(map[string]any{"current": "shipped", "target": "confirmed"})
		},
	}

	req := withURLParam(requestWithActor(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/accept", uuid.NewString(), ""), "orderId", orderID.String())
	resp := httptest.NewRecorder()
	AcceptOrder(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("expected STATE_CONFLICT got %s", payload.Error.Code)
	}
}

func TestCancelOrderPassesReason(t *testing.T) {
	orderID := uuid.New()
	var gotReason string
	svc := &stubOrdersService{
		cancel: func(_ context.Context, id uuid.UUID, reason string) (*internalorders.OrderDTO, error) {
			gotReason = reason
			return &internalorders.OrderDTO{ID: id, Status: enums.OrderStatusCanceled}, nil
		},
	}

	req := withURLParam(requestWithActor(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/cancel", uuid.NewString(), `{"reason":"late harvest"}`), "orderId", orderID.String())
	resp := httptest.NewRecorder()
	CancelOrder(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotReason != "late harvest" {
		t.Fatalf("expected reason forwarded, got %q", gotReason)
	}
}
