package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

// InventoryLot is a specific quantity of one product held by one supplier.
// Quantity never goes negative; a lot flips to reserved when fully allocated
// to an order.
type InventoryLot struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID        uuid.UUID        `gorm:"column:supplier_id;type:uuid;not null;uniqueIndex:idx_inventory_lots_number"`
	ProductID         uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	LotNumber         int64            `gorm:"column:lot_number;not null;uniqueIndex:idx_inventory_lots_number"`
	Quantity          decimal.Decimal  `gorm:"column:quantity;type:numeric(12,2);not null"`
	Status            enums.LotStatus  `gorm:"column:status;type:lot_status;not null;default:'available'"`
	UploadedAt        time.Time        `gorm:"column:uploaded_at;not null"`
	HarvestDate       *time.Time       `gorm:"column:harvest_date"`
	ExpiryDate        *time.Time       `gorm:"column:expiry_date"`
	DiscountPrice     *decimal.Decimal `gorm:"column:discount_price;type:numeric(12,2)"`
	DiscountAfterDays *int             `gorm:"column:discount_after_days"`
	LogisticsPrice    *decimal.Decimal `gorm:"column:logistics_price;type:numeric(12,2)"`
	Product           *Product         `gorm:"foreignKey:ProductID"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
