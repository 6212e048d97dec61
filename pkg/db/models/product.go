package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

// Product represents a supplier's canonical produce listing. Rows are never
// deleted; a product retires when no lot of it remains available.
type Product struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID        uuid.UUID         `gorm:"column:supplier_id;type:uuid;not null"`
	Name              string            `gorm:"column:name;not null"`
	Variety           string            `gorm:"column:variety"`
	Category          string            `gorm:"column:category;not null"`
	Unit              enums.ProductUnit `gorm:"column:unit;type:product_unit;not null"`
	DefaultPrice      decimal.Decimal   `gorm:"column:default_price;type:numeric(12,2);not null"`
	CO2SavingsPerUnit decimal.Decimal   `gorm:"column:co2_savings_per_unit;type:numeric(12,4);not null;default:0"`
	Lots              []InventoryLot    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
