package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	"github.com/pzfresh/pzfresh-backend/pkg/types"
)

// Order is the buyer-seller fulfillment aggregate. Terminal rows are retained
// for history; mutation happens only through the order service transitions.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID       uuid.UUID           `gorm:"column:buyer_id;type:uuid;not null"`
	SellerID      uuid.UUID           `gorm:"column:seller_id;type:uuid;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'unpaid'"`
	PayoutStatus  enums.PayoutStatus  `gorm:"column:payout_status;type:payout_status;not null;default:'pending'"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	LogisticsFee  decimal.Decimal     `gorm:"column:logistics_fee;type:numeric(12,2);not null;default:0"`
	Logistics     *types.Logistics    `gorm:"column:logistics;type:jsonb;serializer:json"`
	CancelReason  *string             `gorm:"column:cancel_reason"`
	ConfirmedAt   *time.Time          `gorm:"column:confirmed_at"`
	PackedAt      *time.Time          `gorm:"column:packed_at"`
	ShippedAt     *time.Time          `gorm:"column:shipped_at"`
	DeliveredAt   *time.Time          `gorm:"column:delivered_at"`
	CanceledAt    *time.Time          `gorm:"column:canceled_at"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Issue         *OrderIssue         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem captures the priced snapshot of each product line in an order.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName  string          `gorm:"column:product_name;not null"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:numeric(12,2);not null"`
	PricePerUnit decimal.Decimal `gorm:"column:price_per_unit;type:numeric(12,2);not null"`
	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// OrderIssue records a problem raised against a delivered order. The reported
// timestamp is metadata for SLA policy; nothing here enforces the window.
type OrderIssue struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Type        enums.IssueType `gorm:"column:type;type:issue_type;not null"`
	Description string          `gorm:"column:description;not null"`
	ReportedAt  time.Time       `gorm:"column:reported_at;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
