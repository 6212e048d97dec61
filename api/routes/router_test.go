package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pzfresh/pzfresh-backend/internal/catalog"
	"github.com/pzfresh/pzfresh-backend/internal/directory"
	"github.com/pzfresh/pzfresh-backend/internal/negotiation"
	"github.com/pzfresh/pzfresh-backend/internal/orders"
	"github.com/pzfresh/pzfresh-backend/internal/sourcing"
	"github.com/pzfresh/pzfresh-backend/pkg/config"
	"github.com/pzfresh/pzfresh-backend/pkg/logger"
	"github.com/pzfresh/pzfresh-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSourcingService struct {
	sourcing.Service
}

func (stubSourcingService) ListDirectSupply(context.Context, uuid.UUID) ([]sourcing.SupplierGroup, error) {
	return []sourcing.SupplierGroup{}, nil
}

type stubOrdersService struct {
	orders.Service
}

func (stubOrdersService) ListForBuyer(context.Context, uuid.UUID, pagination.Params) (*orders.OrderPage, error) {
	return &orders.OrderPage{Orders: []orders.OrderDTO{}}, nil
}

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"

	return NewRouter(Deps{
		Config:      cfg,
		Logger:      logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.ErrorLevel}),
		DBPinger:    stubPinger{},
		RedisPinger: stubPinger{},
		Catalog:     catalog.Service(nil),
		Directory:   directory.Service(nil),
		Orders:      stubOrdersService{},
		Negotiation: negotiation.Service(nil),
		Sourcing:    stubSourcingService{},
	})
}

func TestHealthEndpoints(t *testing.T) {
	router := testRouter()

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestProtectedRoutesRequireActor(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without actor header, got %d", resp.Code)
	}
}

func TestProtectedRouteWithActor(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("X-Actor-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		Data struct {
			Orders []any `json:"orders"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
}

func TestSourcingDirectRoute(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sourcing/direct", nil)
	req.Header.Set("X-Actor-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestMetricsDisabledWithoutGatherer(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
