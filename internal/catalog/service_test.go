package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
)

type stubCatalogRepo struct {
	products map[uuid.UUID]*models.Product
	lots     map[uuid.UUID]*models.InventoryLot
	updates  map[string]any
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		products: make(map[uuid.UUID]*models.Product),
		lots:     make(map[uuid.UUID]*models.InventoryLot),
	}
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubCatalogRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubCatalogRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubCatalogRepo) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubCatalogRepo) ListProductsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Product, error) {
	products := make([]models.Product, 0)
	for _, product := range s.products {
		if product.SupplierID == supplierID {
			products = append(products, *product)
		}
	}
	return products, nil
}

func (s *stubCatalogRepo) CreateLot(ctx context.Context, lot *models.InventoryLot) (*models.InventoryLot, error) {
	if lot.ID == uuid.Nil {
		lot.ID = uuid.New()
	}
	s.lots[lot.ID] = lot
	return lot, nil
}

func (s *stubCatalogRepo) FindLotByID(ctx context.Context, id uuid.UUID) (*models.InventoryLot, error) {
	lot, ok := s.lots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lot, nil
}

func (s *stubCatalogRepo) MaxLotNumber(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var max int64
	for _, lot := range s.lots {
		if lot.SupplierID == supplierID && lot.LotNumber > max {
			max = lot.LotNumber
		}
	}
	return max, nil
}

func (s *stubCatalogRepo) UpdateLotStatus(ctx context.Context, id uuid.UUID, status enums.LotStatus) error {
	lot, ok := s.lots[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	lot.Status = status
	return nil
}

func (s *stubCatalogRepo) ListAvailableLots(ctx context.Context) ([]models.InventoryLot, error) {
	lots := make([]models.InventoryLot, 0)
	for _, lot := range s.lots {
		if lot.Status == enums.LotStatusAvailable {
			lots = append(lots, *lot)
		}
	}
	return lots, nil
}

func (s *stubCatalogRepo) ListAvailableLotsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.InventoryLot, error) {
	lots := make([]models.InventoryLot, 0)
	for _, lot := range s.lots {
		if lot.SupplierID == supplierID && lot.Status == enums.LotStatusAvailable {
			lots = append(lots, *lot)
		}
	}
	return lots, nil
}

func (s *stubCatalogRepo) SumAvailableQuantity(ctx context.Context, supplierID, productID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, lot := range s.lots {
		if lot.SupplierID == supplierID && lot.ProductID == productID && lot.Status == enums.LotStatusAvailable {
			total = total.Add(lot.Quantity)
		}
	}
	return total, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserReader struct {
	users map[uuid.UUID]*models.User
}

func (s *stubUserReader) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func newTestSupplier() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        "farm@example.com",
		BusinessName: "Green Valley Farm",
		Role:         enums.UserRoleFarmer,
		IsActive:     true,
	}
}

func newCatalogService(t *testing.T, repo *stubCatalogRepo, supplier *models.User) Service {
	t.Helper()
	users := &stubUserReader{users: map[uuid.UUID]*models.User{}}
	if supplier != nil {
		users.users[supplier.ID] = supplier
	}
	svc, err := NewService(repo, stubTxRunner{}, users)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateProductRejectsNonSupplier(t *testing.T) {
	repo := newStubCatalogRepo()
	buyer := newTestSupplier()
	buyer.Role = enums.UserRoleBuyer
	svc := newCatalogService(t, repo, buyer)

	_, err := svc.CreateProduct(context.Background(), buyer.ID, CreateProductInput{
		Name:         "Tomatoes",
		Unit:         enums.ProductUnitMass,
		DefaultPrice: decimal.NewFromFloat(3.20),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestUpdatePricingOwnerOnly(t *testing.T) {
	repo := newStubCatalogRepo()
	supplier := newTestSupplier()
	svc := newCatalogService(t, repo, supplier)

	product := &models.Product{
		ID:           uuid.New(),
		SupplierID:   uuid.New(),
		Name:         "Cucumbers",
		Unit:         enums.ProductUnitMass,
		DefaultPrice: decimal.NewFromFloat(1.80),
	}
	repo.products[product.ID] = product

	price := decimal.NewFromFloat(2.10)
	_, err := svc.UpdatePricing(context.Background(), supplier.ID, product.ID, UpdatePricingInput{DefaultPrice: &price})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestUploadLotAssignsMonotonicNumbers(t *testing.T) {
	repo := newStubCatalogRepo()
	supplier := newTestSupplier()
	svc := newCatalogService(t, repo, supplier)

	product := &models.Product{
		ID:           uuid.New(),
		SupplierID:   supplier.ID,
		Name:         "Apples",
		Unit:         enums.ProductUnitMass,
		DefaultPrice: decimal.NewFromFloat(2.50),
	}
	repo.products[product.ID] = product

	first, err := svc.UploadLot(context.Background(), supplier.ID, UploadLotInput{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(40),
	})
	if err != nil {
		t.Fatalf("upload first lot: %v", err)
	}
	second, err := svc.UploadLot(context.Background(), supplier.ID, UploadLotInput{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(25),
	})
	if err != nil {
		t.Fatalf("upload second lot: %v", err)
	}
	if first.LotNumber != 1 || second.LotNumber != 2 {
		t.Fatalf("expected lot numbers 1 and 2, got %d and %d", first.LotNumber, second.LotNumber)
	}
	if first.Status != enums.LotStatusAvailable {
		t.Fatalf("expected new lot to be available, got %s", first.Status)
	}
}

func TestLotStatusTransitions(t *testing.T) {
	repo := newStubCatalogRepo()
	supplier := newTestSupplier()
	svc := newCatalogService(t, repo, supplier)

	lot := &models.InventoryLot{
		ID:         uuid.New(),
		SupplierID: supplier.ID,
		ProductID:  uuid.New(),
		LotNumber:  1,
		Quantity:   decimal.NewFromInt(30),
		Status:     enums.LotStatusAvailable,
		UploadedAt: time.Now().UTC(),
	}
	repo.lots[lot.ID] = lot

	reserved, err := svc.MarkLotReserved(context.Background(), supplier.ID, lot.ID)
	if err != nil {
		t.Fatalf("reserve lot: %v", err)
	}
	if reserved.Status != enums.LotStatusReserved {
		t.Fatalf("expected reserved, got %s", reserved.Status)
	}

	// Same-state call is a no-op, not an error.
	if _, err := svc.MarkLotReserved(context.Background(), supplier.ID, lot.ID); err != nil {
		t.Fatalf("re-reserve should no-op: %v", err)
	}

	depleted, err := svc.MarkLotDepleted(context.Background(), supplier.ID, lot.ID)
	if err != nil {
		t.Fatalf("deplete lot: %v", err)
	}
	if depleted.Status != enums.LotStatusDepleted {
		t.Fatalf("expected depleted, got %s", depleted.Status)
	}

	_, err = svc.MarkLotReserved(context.Background(), supplier.ID, lot.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict reserving depleted lot, got %v", err)
	}
}

func TestEffectiveLotPriceClearance(t *testing.T) {
	uploaded := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	discount := decimal.NewFromFloat(1.50)
	days := 5
	lot := &models.InventoryLot{
		UploadedAt:        uploaded,
		DiscountPrice:     &discount,
		DiscountAfterDays: &days,
		Product: &models.Product{
			DefaultPrice: decimal.NewFromFloat(2.50),
		},
	}

	before := uploaded.AddDate(0, 0, 4)
	if got := EffectiveLotPrice(lot, before); !got.Equal(decimal.NewFromFloat(2.50)) {
		t.Fatalf("expected default price before clearance, got %s", got)
	}
	after := uploaded.AddDate(0, 0, 5)
	if got := EffectiveLotPrice(lot, after); !got.Equal(discount) {
		t.Fatalf("expected discount price after clearance, got %s", got)
	}
}
