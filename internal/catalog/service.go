package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
)

// Service exposes supplier catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, supplierID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdatePricing(ctx context.Context, supplierID, productID uuid.UUID, input UpdatePricingInput) (*ProductDTO, error)
	ListProducts(ctx context.Context, supplierID uuid.UUID) ([]ProductDTO, error)
	UploadLot(ctx context.Context, supplierID uuid.UUID, input UploadLotInput) (*LotDTO, error)
	MarkLotReserved(ctx context.Context, supplierID, lotID uuid.UUID) (*LotDTO, error)
	MarkLotDepleted(ctx context.Context, supplierID, lotID uuid.UUID) (*LotDTO, error)
	ListSupplierLots(ctx context.Context, supplierID uuid.UUID) ([]LotDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name              string
	Variety           string
	Category          string
	Unit              enums.ProductUnit
	DefaultPrice      decimal.Decimal
	CO2SavingsPerUnit decimal.Decimal
}

// UpdatePricingInput carries the price and unit edits allowed after creation.
type UpdatePricingInput struct {
	DefaultPrice *decimal.Decimal
	Unit         *enums.ProductUnit
}

// UploadLotInput holds the validated payload to upload an inventory lot.
type UploadLotInput struct {
	ProductID         uuid.UUID
	Quantity          decimal.Decimal
	HarvestDate       *time.Time
	ExpiryDate        *time.Time
	DiscountPrice     *decimal.Decimal
	DiscountAfterDays *int
	LogisticsPrice    *decimal.Decimal
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type supplierReader interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	users supplierReader
	now   func() time.Time
}

// NewService constructs a catalog service instance.
func NewService(repo Repository, tx txRunner, users supplierReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if users == nil {
		return nil, fmt.Errorf("user reader required")
	}
	return &service{
		repo:  repo,
		tx:    tx,
		users: users,
		now:   time.Now,
	}, nil
}

func (s *service) CreateProduct(ctx context.Context, supplierID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product unit")
	}
	if input.DefaultPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "default price cannot be negative")
	}
	if err := s.ensureSupplier(ctx, supplierID); err != nil {
		return nil, err
	}

	product := &models.Product{
		SupplierID:        supplierID,
		Name:              input.Name,
		Variety:           input.Variety,
		Category:          input.Category,
		Unit:              input.Unit,
		DefaultPrice:      input.DefaultPrice,
		CO2SavingsPerUnit: input.CO2SavingsPerUnit,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

func (s *service) UpdatePricing(ctx context.Context, supplierID, productID uuid.UUID, input UpdatePricingInput) (*ProductDTO, error) {
	if input.DefaultPrice == nil && input.Unit == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no pricing fields to update")
	}
	if input.DefaultPrice != nil && input.DefaultPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "default price cannot be negative")
	}
	if input.Unit != nil && !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product unit")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SupplierID != supplierID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to supplier")
	}

	updates := map[string]any{}
	if input.DefaultPrice != nil {
		updates["default_price"] = *input.DefaultPrice
		product.DefaultPrice = *input.DefaultPrice
	}
	if input.Unit != nil {
		updates["unit"] = *input.Unit
		product.Unit = *input.Unit
	}
	if err := s.repo.UpdateProduct(ctx, product.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product pricing")
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, supplierID uuid.UUID) ([]ProductDTO, error) {
	products, err := s.repo.ListProductsBySupplier(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *NewProductDTO(&products[i]))
	}
	return dtos, nil
}

// UploadLot assigns the next lot number for the supplier inside a transaction
// so concurrent uploads cannot share a number; the unique index backs this up.
func (s *service) UploadLot(ctx context.Context, supplierID uuid.UUID, input UploadLotInput) (*LotDTO, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if !input.Quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.DiscountPrice != nil && input.DiscountAfterDays == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount price requires discount_after_days")
	}
	if err := s.ensureSupplier(ctx, supplierID); err != nil {
		return nil, err
	}

	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.SupplierID != supplierID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to supplier")
	}

	var created *models.InventoryLot
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		max, err := txRepo.MaxLotNumber(ctx, supplierID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: next lot number")
		}

		lot := &models.InventoryLot{
			SupplierID:        supplierID,
			ProductID:         input.ProductID,
			LotNumber:         max + 1,
			Quantity:          input.Quantity,
			Status:            enums.LotStatusAvailable,
			UploadedAt:        s.now().UTC(),
			HarvestDate:       input.HarvestDate,
			ExpiryDate:        input.ExpiryDate,
			DiscountPrice:     input.DiscountPrice,
			DiscountAfterDays: input.DiscountAfterDays,
			LogisticsPrice:    input.LogisticsPrice,
		}
		created, err = txRepo.CreateLot(ctx, lot)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert lot")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload lot")
	}

	created.Product = product
	return NewLotDTO(created, s.now()), nil
}

func (s *service) MarkLotReserved(ctx context.Context, supplierID, lotID uuid.UUID) (*LotDTO, error) {
	return s.transitionLot(ctx, supplierID, lotID, enums.LotStatusReserved)
}

func (s *service) MarkLotDepleted(ctx context.Context, supplierID, lotID uuid.UUID) (*LotDTO, error) {
	return s.transitionLot(ctx, supplierID, lotID, enums.LotStatusDepleted)
}

func (s *service) ListSupplierLots(ctx context.Context, supplierID uuid.UUID) ([]LotDTO, error) {
	lots, err := s.repo.ListAvailableLotsBySupplier(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list supplier lots")
	}
	now := s.now()
	dtos := make([]LotDTO, 0, len(lots))
	for i := range lots {
		dtos = append(dtos, *NewLotDTO(&lots[i], now))
	}
	return dtos, nil
}

func (s *service) transitionLot(ctx context.Context, supplierID, lotID uuid.UUID, target enums.LotStatus) (*LotDTO, error) {
	var lot *models.InventoryLot
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		found, err := txRepo.FindLotByID(ctx, lotID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "lot not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lot")
		}
		if found.SupplierID != supplierID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "lot does not belong to supplier")
		}
		if found.Status == target {
			lot = found
			return nil
		}
		if !canTransitionLotStatus(found.Status, target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "lot status change not allowed in current state")
		}
		if err := txRepo.UpdateLotStatus(ctx, found.ID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update lot status")
		}
		found.Status = target
		lot = found
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition lot")
	}
	return NewLotDTO(lot, s.now()), nil
}

func canTransitionLotStatus(current, target enums.LotStatus) bool {
	switch target {
	case enums.LotStatusReserved:
		return current == enums.LotStatusAvailable
	case enums.LotStatusDepleted:
		return current == enums.LotStatusAvailable || current == enums.LotStatusReserved
	default:
		return false
	}
}

func (s *service) ensureSupplier(ctx context.Context, supplierID uuid.UUID) error {
	if supplierID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	user, err := s.users.FindUserByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	if !user.Role.IsSupplier() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "user cannot manage catalog")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
