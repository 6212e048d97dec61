package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	"github.com/pzfresh/pzfresh-backend/pkg/types"
)

// OrderItemDTO is the priced line snapshot inside an order view.
type OrderItemDTO struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// IssueDTO is the issue record attached to a delivered order.
type IssueDTO struct {
	Type        enums.IssueType `json:"type"`
	Description string          `json:"description"`
	ReportedAt  time.Time       `json:"reported_at"`
}

// InventoryShortfall flags a line whose requested quantity exceeds the
// seller's on-hand available stock. Advisory only; it never blocks creation.
type InventoryShortfall struct {
	ProductID uuid.UUID       `json:"product_id"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
	Shortfall decimal.Decimal `json:"shortfall"`
}

// OrderDTO is the full order snapshot returned after every operation.
type OrderDTO struct {
	ID            uuid.UUID           `json:"id"`
	BuyerID       uuid.UUID           `json:"buyer_id"`
	SellerID      uuid.UUID           `json:"seller_id"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	PayoutStatus  enums.PayoutStatus  `json:"payout_status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	LogisticsFee  decimal.Decimal     `json:"logistics_fee"`
	Logistics     *types.Logistics    `json:"logistics,omitempty"`
	CancelReason  *string             `json:"cancel_reason,omitempty"`
	Items         []OrderItemDTO      `json:"items"`
	Issue         *IssueDTO           `json:"issue,omitempty"`
	ConfirmedAt   *time.Time          `json:"confirmed_at,omitempty"`
	PackedAt      *time.Time          `json:"packed_at,omitempty"`
	ShippedAt     *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt   *time.Time          `json:"delivered_at,omitempty"`
	CanceledAt    *time.Time          `json:"canceled_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderPage is one cursor page of orders.
type OrderPage struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// CreateOrderResult pairs the created order with its advisory stock report.
type CreateOrderResult struct {
	Order               *OrderDTO            `json:"order"`
	InventoryShortfalls []InventoryShortfall `json:"inventory_shortfalls,omitempty"`
}

// NewOrderDTO maps an order row into its service view.
func NewOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:            order.ID,
		BuyerID:       order.BuyerID,
		SellerID:      order.SellerID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		PayoutStatus:  order.PayoutStatus,
		TotalAmount:   order.TotalAmount,
		LogisticsFee:  order.LogisticsFee,
		Logistics:     order.Logistics,
		CancelReason:  order.CancelReason,
		ConfirmedAt:   order.ConfirmedAt,
		PackedAt:      order.PackedAt,
		ShippedAt:     order.ShippedAt,
		DeliveredAt:   order.DeliveredAt,
		CanceledAt:    order.CanceledAt,
		CreatedAt:     order.CreatedAt,
	}
	dto.Items = make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit,
			Subtotal:     item.Subtotal,
		})
	}
	if order.Issue != nil {
		dto.Issue = &IssueDTO{
			Type:        order.Issue.Type,
			Description: order.Issue.Description,
			ReportedAt:  order.Issue.ReportedAt,
		}
	}
	return dto
}
