package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ListProductsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("created_at ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) CreateLot(ctx context.Context, lot *models.InventoryLot) (*models.InventoryLot, error) {
	if err := r.db.WithContext(ctx).Create(lot).Error; err != nil {
		return nil, err
	}
	return lot, nil
}

func (r *repository) FindLotByID(ctx context.Context, id uuid.UUID) (*models.InventoryLot, error) {
	var lot models.InventoryLot
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", id).
		First(&lot).Error
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *repository) MaxLotNumber(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var max int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryLot{}).
		Where("supplier_id = ?", supplierID).
		Select("COALESCE(MAX(lot_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *repository) UpdateLotStatus(ctx context.Context, id uuid.UUID, status enums.LotStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryLot{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) ListAvailableLots(ctx context.Context) ([]models.InventoryLot, error) {
	var lots []models.InventoryLot
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("status = ?", enums.LotStatusAvailable).
		Order("uploaded_at DESC").
		Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}

func (r *repository) ListAvailableLotsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.InventoryLot, error) {
	var lots []models.InventoryLot
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("supplier_id = ? AND status = ?", supplierID, enums.LotStatusAvailable).
		Order("lot_number ASC").
		Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}

func (r *repository) SumAvailableQuantity(ctx context.Context, supplierID, productID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.InventoryLot{}).
		Where("supplier_id = ? AND product_id = ? AND status = ?", supplierID, productID, enums.LotStatusAvailable).
		Select("SUM(quantity)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
