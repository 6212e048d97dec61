package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

// PriceRequest is a multi-round quote workflow the operator routes to a
// supplier on behalf of a prospective customer.
type PriceRequest struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID       uuid.UUID           `gorm:"column:supplier_id;type:uuid;not null"`
	CustomerContext  string              `gorm:"column:customer_context;not null"`
	CustomerLocation string              `gorm:"column:customer_location"`
	Status           enums.RequestStatus `gorm:"column:status;type:request_status;not null;default:'pending'"`
	SubmittedAt      *time.Time          `gorm:"column:submitted_at"`
	DecidedAt        *time.Time          `gorm:"column:decided_at"`
	Items            []PriceRequestItem  `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// PriceRequestItem holds the status-quo invoice price, the operator's
// win-floor, and the supplier's eventual offer for one product.
type PriceRequestItem struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID        uuid.UUID        `gorm:"column:request_id;type:uuid;not null"`
	ProductID        *uuid.UUID       `gorm:"column:product_id;type:uuid"`
	ProductName      string           `gorm:"column:product_name;not null"`
	Qty              decimal.Decimal  `gorm:"column:qty;type:numeric(12,2);not null"`
	InvoicePrice     decimal.Decimal  `gorm:"column:invoice_price;type:numeric(12,2);not null"`
	TargetPrice      decimal.Decimal  `gorm:"column:target_price;type:numeric(12,2);not null"`
	OfferedPrice     *decimal.Decimal `gorm:"column:offered_price;type:numeric(12,2)"`
	IsMatchingTarget *bool            `gorm:"column:is_matching_target"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
