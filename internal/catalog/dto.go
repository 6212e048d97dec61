package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

// ProductDTO is the catalog view of a product returned by the service.
type ProductDTO struct {
	ID                uuid.UUID         `json:"id"`
	SupplierID        uuid.UUID         `json:"supplier_id"`
	Name              string            `json:"name"`
	Variety           string            `json:"variety,omitempty"`
	Category          string            `json:"category,omitempty"`
	Unit              enums.ProductUnit `json:"unit"`
	DefaultPrice      decimal.Decimal   `json:"default_price"`
	CO2SavingsPerUnit decimal.Decimal   `json:"co2_savings_per_unit"`
	CreatedAt         time.Time         `json:"created_at"`
}

// LotDTO is the supplier-facing view of an inventory lot. EffectivePrice is
// the advisory per-unit price after clearance resolution.
type LotDTO struct {
	ID                uuid.UUID        `json:"id"`
	SupplierID        uuid.UUID        `json:"supplier_id"`
	ProductID         uuid.UUID        `json:"product_id"`
	ProductName       string           `json:"product_name,omitempty"`
	Variety           string           `json:"variety,omitempty"`
	LotNumber         int64            `json:"lot_number"`
	Quantity          decimal.Decimal  `json:"quantity"`
	Status            enums.LotStatus  `json:"status"`
	UploadedAt        time.Time        `json:"uploaded_at"`
	HarvestDate       *time.Time       `json:"harvest_date,omitempty"`
	ExpiryDate        *time.Time       `json:"expiry_date,omitempty"`
	DiscountPrice     *decimal.Decimal `json:"discount_price,omitempty"`
	DiscountAfterDays *int             `json:"discount_after_days,omitempty"`
	LogisticsPrice    *decimal.Decimal `json:"logistics_price,omitempty"`
	EffectivePrice    decimal.Decimal  `json:"effective_price"`
}

// NewProductDTO maps a product row into its service view.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:                product.ID,
		SupplierID:        product.SupplierID,
		Name:              product.Name,
		Variety:           product.Variety,
		Category:          product.Category,
		Unit:              product.Unit,
		DefaultPrice:      product.DefaultPrice,
		CO2SavingsPerUnit: product.CO2SavingsPerUnit,
		CreatedAt:         product.CreatedAt,
	}
}

// NewLotDTO maps a lot row into its service view, resolving the effective
// per-unit price at the given time.
func NewLotDTO(lot *models.InventoryLot, now time.Time) *LotDTO {
	if lot == nil {
		return nil
	}
	dto := &LotDTO{
		ID:                lot.ID,
		SupplierID:        lot.SupplierID,
		ProductID:         lot.ProductID,
		LotNumber:         lot.LotNumber,
		Quantity:          lot.Quantity,
		Status:            lot.Status,
		UploadedAt:        lot.UploadedAt,
		HarvestDate:       lot.HarvestDate,
		ExpiryDate:        lot.ExpiryDate,
		DiscountPrice:     lot.DiscountPrice,
		DiscountAfterDays: lot.DiscountAfterDays,
		LogisticsPrice:    lot.LogisticsPrice,
		EffectivePrice:    EffectiveLotPrice(lot, now),
	}
	if lot.Product != nil {
		dto.ProductName = lot.Product.Name
		dto.Variety = lot.Product.Variety
	}
	return dto
}

// EffectiveLotPrice resolves the advisory per-unit price for a lot: the
// clearance discount applies once the lot has sat longer than its configured
// day count, otherwise the product default price holds. Lots without a loaded
// product fall back to the discount price or zero.
func EffectiveLotPrice(lot *models.InventoryLot, now time.Time) decimal.Decimal {
	if lot == nil {
		return decimal.Zero
	}
	if lot.DiscountPrice != nil && lot.DiscountAfterDays != nil {
		threshold := lot.UploadedAt.AddDate(0, 0, *lot.DiscountAfterDays)
		if !now.Before(threshold) {
			return *lot.DiscountPrice
		}
	}
	if lot.Product != nil {
		return lot.Product.DefaultPrice
	}
	return decimal.Zero
}
