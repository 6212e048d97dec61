package negotiation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pzfresh/pzfresh-backend/internal/directory"
	"github.com/pzfresh/pzfresh-backend/pkg/config"
	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
)

type stubRequestRepo struct {
	requests map[uuid.UUID]*models.PriceRequest
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: make(map[uuid.UUID]*models.PriceRequest)}
}

func (s *stubRequestRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubRequestRepo) CreateRequest(ctx context.Context, request *models.PriceRequest) (*models.PriceRequest, error) {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	for i := range request.Items {
		if request.Items[i].ID == uuid.Nil {
			request.Items[i].ID = uuid.New()
		}
		request.Items[i].RequestID = request.ID
	}
	s.requests[request.ID] = request
	return request, nil
}

func (s *stubRequestRepo) FindRequestByID(ctx context.Context, id uuid.UUID) (*models.PriceRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return request, nil
}

func (s *stubRequestRepo) UpdateRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	request, ok := s.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.RequestStatus); ok {
		request.Status = status
	}
	return nil
}

func (s *stubRequestRepo) UpdateRequestItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubRequestRepo) ListRequestsForSupplier(ctx context.Context, supplierID uuid.UUID, status *enums.RequestStatus) ([]models.PriceRequest, error) {
	requests := make([]models.PriceRequest, 0)
	for _, request := range s.requests {
		if request.SupplierID != supplierID {
			continue
		}
		if status != nil && request.Status != *status {
			continue
		}
		requests = append(requests, *request)
	}
	return requests, nil
}

type stubCustomerRepo struct {
	directory.Repository
	created []*models.Customer
}

func (s *stubCustomerRepo) WithTx(tx *gorm.DB) directory.Repository {
	return s
}

func (s *stubCustomerRepo) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	for _, existing := range s.created {
		if existing.SourceRequestID != nil && customer.SourceRequestID != nil &&
			*existing.SourceRequestID == *customer.SourceRequestID {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	s.created = append(s.created, customer)
	return customer, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func defaultCommercial() config.CommercialConfig {
	return config.CommercialConfig{
		DefaultMarkup:           "0.12",
		DefaultPaymentTermsDays: 30,
	}
}

func newNegotiationService(t *testing.T, repo *stubRequestRepo, customers *stubCustomerRepo, scorer AcceptanceScorer) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, customers, defaultCommercial(), scorer, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedRequest(repo *stubRequestRepo, status enums.RequestStatus, targets ...decimal.Decimal) *models.PriceRequest {
	request := &models.PriceRequest{
		ID:              uuid.New(),
		SupplierID:      uuid.New(),
		CustomerContext: "Cafe Central, Barranco",
		Status:          status,
	}
	for i, target := range targets {
		request.Items = append(request.Items, models.PriceRequestItem{
			ID:           uuid.New(),
			RequestID:    request.ID,
			ProductName:  "Item",
			Qty:          decimal.NewFromInt(int64(10 + i)),
			InvoicePrice: target.Add(decimal.NewFromInt(1)),
			TargetPrice:  target,
		})
	}
	repo.requests[request.ID] = request
	return request
}

func TestCreateRequestRejectsZeroItems(t *testing.T) {
	repo := newStubRequestRepo()
	svc := newNegotiationService(t, repo, &stubCustomerRepo{}, nil)

	_, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		SupplierID:      uuid.New(),
		CustomerContext: "Restaurant lead",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitQuoteIncompleteFailsClosed(t *testing.T) {
	repo := newStubRequestRepo()
	svc := newNegotiationService(t, repo, &stubCustomerRepo{}, nil)
	request := seedRequest(repo, enums.RequestStatusPending, decimal.NewFromInt(4), decimal.NewFromInt(6))

	_, err := svc.SubmitQuote(context.Background(), request.ID, []QuoteOffer{
		{ItemID: request.Items[0].ID, OfferedPrice: decimal.NewFromInt(4)},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePrecondition {
		t.Fatalf("expected precondition error for incomplete quote, got %v", err)
	}
	if request.Status != enums.RequestStatusPending {
		t.Fatalf("request must stay pending after failed submit, got %s", request.Status)
	}
}

func TestSubmitQuoteMatchSemantics(t *testing.T) {
	repo := newStubRequestRepo()
	svc := newNegotiationService(t, repo, &stubCustomerRepo{}, nil)
	target := decimal.NewFromFloat(5.00)
	request := seedRequest(repo, enums.RequestStatusPending, target, target)

	dto, err := svc.SubmitQuote(context.Background(), request.ID, []QuoteOffer{
		{ItemID: request.Items[0].ID, OfferedPrice: target},
		{ItemID: request.Items[1].ID, OfferedPrice: target.Add(decimal.NewFromFloat(0.01))},
	})
	if err != nil {
		t.Fatalf("submit quote: %v", err)
	}
	if dto.Status != enums.RequestStatusSubmitted {
		t.Fatalf("expected submitted, got %s", dto.Status)
	}
	if dto.Items[0].IsMatchingTarget == nil || !*dto.Items[0].IsMatchingTarget {
		t.Fatalf("offer at target must match")
	}
	if dto.Items[1].IsMatchingTarget == nil || *dto.Items[1].IsMatchingTarget {
		t.Fatalf("offer a cent above target must not match")
	}
}

func TestSubmitQuoteTwoItemScenario(t *testing.T) {
	repo := newStubRequestRepo()
	svc := newNegotiationService(t, repo, &stubCustomerRepo{}, nil)
	target := decimal.NewFromInt(8)
	request := seedRequest(repo, enums.RequestStatusPending, target, target)

	dto, err := svc.SubmitQuote(context.Background(), request.ID, []QuoteOffer{
		{ItemID: request.Items[0].ID, OfferedPrice: target},
		{ItemID: request.Items[1].ID, OfferedPrice: target.Add(decimal.NewFromInt(1))},
	})
	if err != nil {
		t.Fatalf("submit quote: %v", err)
	}
	if !*dto.Items[0].IsMatchingTarget || *dto.Items[1].IsMatchingTarget {
		t.Fatalf("expected item1 matching and item2 not, got %+v", dto.Items)
	}
	if dto.Status != enums.RequestStatusSubmitted {
		t.Fatalf("expected submitted, got %s", dto.Status)
	}
}

func TestFinalizeDealSpawnsExactlyOneCustomer(t *testing.T) {
	repo := newStubRequestRepo()
	customers := &stubCustomerRepo{}
	svc := newNegotiationService(t, repo, customers, nil)
	request := seedRequest(repo, enums.RequestStatusSubmitted, decimal.NewFromInt(4))

	result, err := svc.FinalizeDeal(context.Background(), request.ID)
	if err != nil {
		t.Fatalf("finalize deal: %v", err)
	}
	if result.Request.Status != enums.RequestStatusWon {
		t.Fatalf("expected won, got %s", result.Request.Status)
	}
	if result.Customer == nil || result.Customer.ConnectedSupplierID != request.SupplierID {
		t.Fatalf("expected customer bound to supplier %s, got %+v", request.SupplierID, result.Customer)
	}
	if result.Customer.Markup.String() != "0.12" || result.Customer.PaymentTermsDays != 30 {
		t.Fatalf("expected default commercial terms, got markup=%s terms=%d",
			result.Customer.Markup, result.Customer.PaymentTermsDays)
	}
	if len(customers.created) != 1 {
		t.Fatalf("expected exactly one customer, got %d", len(customers.created))
	}

	_, err = svc.FinalizeDeal(context.Background(), request.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict re-finalizing won request, got %v", err)
	}
	if len(customers.created) != 1 {
		t.Fatalf("re-finalize must not create another customer, got %d", len(customers.created))
	}
}

func TestRejectDealFromSubmittedOnly(t *testing.T) {
	repo := newStubRequestRepo()
	svc := newNegotiationService(t, repo, &stubCustomerRepo{}, nil)

	pending := seedRequest(repo, enums.RequestStatusPending, decimal.NewFromInt(4))
	_, err := svc.RejectDeal(context.Background(), pending.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict rejecting pending request, got %v", err)
	}

	submitted := seedRequest(repo, enums.RequestStatusSubmitted, decimal.NewFromInt(4))
	dto, err := svc.RejectDeal(context.Background(), submitted.ID)
	if err != nil {
		t.Fatalf("reject deal: %v", err)
	}
	if dto.Status != enums.RequestStatusLost {
		t.Fatalf("expected lost, got %s", dto.Status)
	}
}

func TestEstimateAcceptanceOptional(t *testing.T) {
	repo := newStubRequestRepo()
	svc := newNegotiationService(t, repo, &stubCustomerRepo{}, nil)

	score, err := svc.EstimateAcceptance(context.Background(), ScoreInput{
		ProductName:  "Mango",
		InvoicePrice: decimal.NewFromInt(10),
		TargetPrice:  decimal.NewFromInt(8),
		OfferedPrice: decimal.NewFromInt(9),
	})
	if err != nil {
		t.Fatalf("estimate without scorer: %v", err)
	}
	if score.Available {
		t.Fatalf("expected unavailable estimate without scorer")
	}
}

func TestHeuristicScorer(t *testing.T) {
	scorer := NewHeuristicScorer()

	atTarget, err := scorer.EstimateAcceptance(context.Background(), ScoreInput{
		InvoicePrice: decimal.NewFromInt(10),
		TargetPrice:  decimal.NewFromInt(8),
		OfferedPrice: decimal.NewFromInt(8),
	})
	if err != nil {
		t.Fatalf("score at target: %v", err)
	}
	aboveTarget, err := scorer.EstimateAcceptance(context.Background(), ScoreInput{
		InvoicePrice: decimal.NewFromInt(10),
		TargetPrice:  decimal.NewFromInt(8),
		OfferedPrice: decimal.NewFromInt(9),
	})
	if err != nil {
		t.Fatalf("score above target: %v", err)
	}
	if aboveTarget >= atTarget {
		t.Fatalf("estimate must decay above target: at=%f above=%f", atTarget, aboveTarget)
	}
	if aboveTarget <= 0 || aboveTarget >= 1 {
		t.Fatalf("estimate out of range: %f", aboveTarget)
	}
}
