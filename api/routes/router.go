package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pzfresh/pzfresh-backend/api/controllers"
	"github.com/pzfresh/pzfresh-backend/api/middleware"
	"github.com/pzfresh/pzfresh-backend/internal/catalog"
	"github.com/pzfresh/pzfresh-backend/internal/directory"
	"github.com/pzfresh/pzfresh-backend/internal/negotiation"
	"github.com/pzfresh/pzfresh-backend/internal/orders"
	"github.com/pzfresh/pzfresh-backend/internal/sourcing"
	"github.com/pzfresh/pzfresh-backend/pkg/config"
	"github.com/pzfresh/pzfresh-backend/pkg/logger"
	pkgredis "github.com/pzfresh/pzfresh-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Gatherer may be nil to
// disable the /metrics endpoint.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger
	IdemStore   pkgredis.IdempotencyStore
	Gatherer    prometheus.Gatherer

	Catalog     catalog.Service
	Directory   directory.Service
	Orders      orders.Service
	Negotiation negotiation.Service
	Sourcing    sourcing.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Registration happens before the caller has an actor id.
		r.Post("/directory/users", controllers.RegisterUser(deps.Directory, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.ActorContext(logg))
			r.Use(middleware.Idempotency(deps.IdemStore, logg))

			r.Route("/directory", func(r chi.Router) {
				r.Get("/users/{userId}", controllers.GetUser(deps.Directory, logg))
				r.Put("/users/me/interests", controllers.UpdateBuyingInterests(deps.Directory, logg))
				r.Post("/partners", controllers.ConnectPartner(deps.Directory, logg))
				r.Get("/partners", controllers.ListPartners(deps.Directory, logg))
				r.Post("/customers", controllers.ApproveRegistration(deps.Directory, logg))
				r.Get("/customers", controllers.ListCustomers(deps.Directory, logg))
				r.Get("/customers/{customerId}", controllers.GetCustomer(deps.Directory, logg))
			})

			r.Route("/catalog", func(r chi.Router) {
				r.Post("/products", controllers.CreateProduct(deps.Catalog, logg))
				r.Get("/products", controllers.ListProducts(deps.Catalog, logg))
				r.Patch("/products/{productId}/pricing", controllers.UpdateProductPricing(deps.Catalog, logg))
				r.Post("/lots", controllers.UploadLot(deps.Catalog, logg))
				r.Get("/lots", controllers.ListLots(deps.Catalog, logg))
				r.Post("/lots/{lotId}/reserve", controllers.ReserveLot(deps.Catalog, logg))
				r.Post("/lots/{lotId}/deplete", controllers.DepleteLot(deps.Catalog, logg))
			})

			r.Post("/orders", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/orders", controllers.ListOrders(deps.Orders, logg))
			r.Route("/orders/{orderId}", func(r chi.Router) {
				r.Get("/", controllers.GetOrder(deps.Orders, logg))
				r.Post("/accept", controllers.AcceptOrder(deps.Orders, logg))
				r.Post("/pack", controllers.PackOrder(deps.Orders, logg))
				r.Post("/dispatch", controllers.DispatchOrder(deps.Orders, logg))
				r.Post("/deliver", controllers.DeliverOrder(deps.Orders, logg))
				r.Post("/cancel", controllers.CancelOrder(deps.Orders, logg))
				r.Post("/issues", controllers.ReportOrderIssue(deps.Orders, logg))
			})

			r.Route("/sourcing", func(r chi.Router) {
				r.Get("/direct", controllers.DirectSupply(deps.Sourcing, logg))
				r.Get("/discovery", controllers.DiscoveryMatches(deps.Sourcing, logg))
			})

			r.Route("/negotiation", func(r chi.Router) {
				r.Post("/requests", controllers.CreatePriceRequest(deps.Negotiation, logg))
				r.Get("/requests", controllers.ListPriceRequests(deps.Negotiation, logg))
				r.Get("/requests/{requestId}", controllers.GetPriceRequest(deps.Negotiation, logg))
				r.Post("/requests/{requestId}/quote", controllers.SubmitQuote(deps.Negotiation, logg))
				r.Post("/requests/{requestId}/finalize", controllers.FinalizeDeal(deps.Negotiation, logg))
				r.Post("/requests/{requestId}/reject", controllers.RejectDeal(deps.Negotiation, logg))
				r.Post("/score", controllers.EstimateAcceptance(deps.Negotiation, logg))
			})
		})
	})

	return r
}
