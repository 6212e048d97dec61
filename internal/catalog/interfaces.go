package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

// Repository defines persistence operations for products and inventory lots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListProductsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Product, error)
	CreateLot(ctx context.Context, lot *models.InventoryLot) (*models.InventoryLot, error)
	FindLotByID(ctx context.Context, id uuid.UUID) (*models.InventoryLot, error)
	MaxLotNumber(ctx context.Context, supplierID uuid.UUID) (int64, error)
	UpdateLotStatus(ctx context.Context, id uuid.UUID, status enums.LotStatus) error
	ListAvailableLots(ctx context.Context) ([]models.InventoryLot, error)
	ListAvailableLotsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.InventoryLot, error)
	SumAvailableQuantity(ctx context.Context, supplierID, productID uuid.UUID) (decimal.Decimal, error)
}
