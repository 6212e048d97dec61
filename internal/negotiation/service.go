package negotiation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pzfresh/pzfresh-backend/internal/directory"
	"github.com/pzfresh/pzfresh-backend/pkg/config"
	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
	"github.com/pzfresh/pzfresh-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the supplier price-request workflow.
type Service interface {
	CreateRequest(ctx context.Context, input CreateRequestInput) (*RequestDTO, error)
	SubmitQuote(ctx context.Context, requestID uuid.UUID, offers []QuoteOffer) (*RequestDTO, error)
	FinalizeDeal(ctx context.Context, requestID uuid.UUID) (*FinalizeResult, error)
	RejectDeal(ctx context.Context, requestID uuid.UUID) (*RequestDTO, error)
	EstimateAcceptance(ctx context.Context, input ScoreInput) (*ScoreDTO, error)
	GetRequest(ctx context.Context, requestID uuid.UUID) (*RequestDTO, error)
	ListForSupplier(ctx context.Context, supplierID uuid.UUID, status *enums.RequestStatus) ([]RequestDTO, error)
}

// RequestItemInput is one product line of a new price request. The operator
// supplies the prospect's current invoice price and the win-floor target.
type RequestItemInput struct {
	ProductID    *uuid.UUID
	ProductName  string
	Qty          decimal.Decimal
	InvoicePrice decimal.Decimal
	TargetPrice  decimal.Decimal
}

// CreateRequestInput holds the validated payload to open a price request.
type CreateRequestInput struct {
	SupplierID       uuid.UUID
	CustomerContext  string
	CustomerLocation string
	Items            []RequestItemInput
}

// QuoteOffer is the supplier's offered price for one request item.
type QuoteOffer struct {
	ItemID       uuid.UUID
	OfferedPrice decimal.Decimal
}

type service struct {
	repo       Repository
	tx         txRunner
	customers  directory.Repository
	commercial config.CommercialConfig
	scorer     AcceptanceScorer
	metrics    *metrics.MarketplaceMetrics
	now        func() time.Time
}

// NewService builds a negotiation service. The scorer and metrics are
// optional.
func NewService(repo Repository, tx txRunner, customers directory.Repository, commercial config.CommercialConfig, scorer AcceptanceScorer, m *metrics.MarketplaceMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("negotiation repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if customers == nil {
		return nil, fmt.Errorf("directory repository required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		customers:  customers,
		commercial: commercial,
		scorer:     scorer,
		metrics:    m,
		now:        time.Now,
	}, nil
}

func (s *service) CreateRequest(ctx context.Context, input CreateRequestInput) (*RequestDTO, error) {
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if input.CustomerContext == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer context required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request requires at least one item")
	}
	for _, item := range input.Items {
		if item.ProductName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item product name required")
		}
		if !item.Qty.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.InvoicePrice.IsNegative() || item.TargetPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item prices cannot be negative")
		}
	}

	items := make([]models.PriceRequestItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, models.PriceRequestItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Qty:          item.Qty,
			InvoicePrice: item.InvoicePrice,
			TargetPrice:  item.TargetPrice,
		})
	}

	request := &models.PriceRequest{
		SupplierID:       input.SupplierID,
		CustomerContext:  input.CustomerContext,
		CustomerLocation: input.CustomerLocation,
		Status:           enums.RequestStatusPending,
		Items:            items,
	}
	created, err := s.repo.CreateRequest(ctx, request)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert price request")
	}
	return NewRequestDTO(created), nil
}

// SubmitQuote records the supplier's offer for every item and moves the
// request to submitted. An incomplete quote fails closed before any item is
// written. Matching is at or below target.
func (s *service) SubmitQuote(ctx context.Context, requestID uuid.UUID, offers []QuoteOffer) (*RequestDTO, error) {
	offersByItem := make(map[uuid.UUID]decimal.Decimal, len(offers))
	for _, offer := range offers {
		if offer.OfferedPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "offered price cannot be negative")
		}
		offersByItem[offer.ItemID] = offer.OfferedPrice
	}

	var result *models.PriceRequest
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := s.loadRequest(ctx, repo, requestID)
		if err != nil {
			return err
		}
		if request.Status != enums.RequestStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quote can only be submitted on a pending request")
		}

		missing := make([]string, 0)
		for _, item := range request.Items {
			if _, ok := offersByItem[item.ID]; !ok {
				missing = append(missing, item.ProductName)
			}
		}
		if len(missing) > 0 {
			return pkgerrors.New(pkgerrors.CodePrecondition, "incomplete quote: every item needs an offered price").
				WithDetails(map[string]any{"missing_items": missing})
		}

		now := s.now().UTC()
		for i := range request.Items {
			item := &request.Items[i]
			offered := offersByItem[item.ID]
			matching := offered.LessThanOrEqual(item.TargetPrice)
			if err := repo.UpdateRequestItem(ctx, item.ID, map[string]any{
				"offered_price":      offered,
				"is_matching_target": matching,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update request item")
			}
			item.OfferedPrice = &offered
			item.IsMatchingTarget = &matching
		}

		if err := repo.UpdateRequest(ctx, request.ID, map[string]any{
			"status":       enums.RequestStatusSubmitted,
			"submitted_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: submit request")
		}
		request.Status = enums.RequestStatusSubmitted
		request.SubmittedAt = &now
		result = request
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit quote")
	}
	return NewRequestDTO(result), nil
}

// FinalizeDeal closes a submitted request as won and spawns its customer.
// The unique source-request index guarantees at most one customer per won
// request even under a retry race.
func (s *service) FinalizeDeal(ctx context.Context, requestID uuid.UUID) (*FinalizeResult, error) {
	markup, err := decimal.NewFromString(s.commercial.DefaultMarkup)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse default markup")
	}

	var (
		request  *models.PriceRequest
		customer *models.Customer
	)
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := s.loadRequest(ctx, repo, requestID)
		if err != nil {
			return err
		}
		if loaded.Status != enums.RequestStatusSubmitted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only a submitted request can be finalized")
		}

		now := s.now().UTC()
		if err := repo.UpdateRequest(ctx, loaded.ID, map[string]any{
			"status":     enums.RequestStatusWon,
			"decided_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: finalize request")
		}
		loaded.Status = enums.RequestStatusWon
		loaded.DecidedAt = &now

		sourceID := loaded.ID
		created, err := s.customers.WithTx(tx).CreateCustomer(ctx, &models.Customer{
			BusinessName:        loaded.CustomerContext,
			Location:            loaded.CustomerLocation,
			ConnectedSupplierID: loaded.SupplierID,
			ConnectionStatus:    enums.ConnectionStatusActive,
			Markup:              markup,
			PaymentTermsDays:    s.commercial.DefaultPaymentTermsDays,
			SourceRequestID:     &sourceID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
		}

		request = loaded
		customer = created
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize deal")
	}

	s.metrics.IncNegotiationOutcome(enums.RequestStatusWon.String())
	return &FinalizeResult{
		Request:  NewRequestDTO(request),
		Customer: directory.NewCustomerDTO(customer),
	}, nil
}

func (s *service) RejectDeal(ctx context.Context, requestID uuid.UUID) (*RequestDTO, error) {
	var result *models.PriceRequest
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := s.loadRequest(ctx, repo, requestID)
		if err != nil {
			return err
		}
		if request.Status != enums.RequestStatusSubmitted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only a submitted request can be rejected")
		}

		now := s.now().UTC()
		if err := repo.UpdateRequest(ctx, request.ID, map[string]any{
			"status":     enums.RequestStatusLost,
			"decided_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reject request")
		}
		request.Status = enums.RequestStatusLost
		request.DecidedAt = &now
		result = request
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject deal")
	}

	s.metrics.IncNegotiationOutcome(enums.RequestStatusLost.String())
	return NewRequestDTO(result), nil
}

// EstimateAcceptance returns the advisory score when a scorer is configured.
// Without one the estimate is simply unavailable; nothing downstream depends
// on it.
func (s *service) EstimateAcceptance(ctx context.Context, input ScoreInput) (*ScoreDTO, error) {
	if s.scorer == nil {
		return &ScoreDTO{Available: false}, nil
	}
	probability, err := s.scorer.EstimateAcceptance(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acceptance scorer")
	}
	return &ScoreDTO{Probability: probability, Available: true}, nil
}

func (s *service) GetRequest(ctx context.Context, requestID uuid.UUID) (*RequestDTO, error) {
	request, err := s.loadRequest(ctx, s.repo, requestID)
	if err != nil {
		return nil, err
	}
	return NewRequestDTO(request), nil
}

func (s *service) ListForSupplier(ctx context.Context, supplierID uuid.UUID, status *enums.RequestStatus) ([]RequestDTO, error) {
	requests, err := s.repo.ListRequestsForSupplier(ctx, supplierID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list requests")
	}
	dtos := make([]RequestDTO, 0, len(requests))
	for i := range requests {
		dtos = append(dtos, *NewRequestDTO(&requests[i]))
	}
	return dtos, nil
}

func (s *service) loadRequest(ctx context.Context, repo Repository, requestID uuid.UUID) (*models.PriceRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	request, err := repo.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price request")
	}
	return request, nil
}
