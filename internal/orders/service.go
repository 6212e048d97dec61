package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
	"github.com/pzfresh/pzfresh-backend/pkg/metrics"
	"github.com/pzfresh/pzfresh-backend/pkg/pagination"
	"github.com/pzfresh/pzfresh-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// catalogReader resolves products and advisory stock levels at creation time.
type catalogReader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindLotByID(ctx context.Context, id uuid.UUID) (*models.InventoryLot, error)
	SumAvailableQuantity(ctx context.Context, supplierID, productID uuid.UUID) (decimal.Decimal, error)
}

// Service owns the order fulfillment state machine.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	Accept(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	Pack(ctx context.Context, orderID uuid.UUID, packerID string) (*OrderDTO, error)
	Dispatch(ctx context.Context, orderID uuid.UUID, driverID string) (*OrderDTO, error)
	Deliver(ctx context.Context, orderID uuid.UUID, driverID, proofPhotoRef string) (*OrderDTO, error)
	Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*OrderDTO, error)
	ReportIssue(ctx context.Context, input ReportIssueInput) (*OrderDTO, error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*OrderPage, error)
	ListForSeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*OrderPage, error)
}

// OrderItemInput is one requested product line at creation.
type OrderItemInput struct {
	ProductID    uuid.UUID
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
}

// CreateOrderInput holds the validated payload to create an order. SourceLotID
// points at the inventory lot the buyer purchased from, when there is one; its
// logistics price is folded into the total.
type CreateOrderInput struct {
	BuyerID     uuid.UUID
	SellerID    uuid.UUID
	Items       []OrderItemInput
	SourceLotID *uuid.UUID
}

// ReportIssueInput attaches an issue to a delivered order.
type ReportIssueInput struct {
	OrderID     uuid.UUID
	Type        enums.IssueType
	Description string
}

type service struct {
	repo    Repository
	tx      txRunner
	catalog catalogReader
	metrics *metrics.MarketplaceMetrics
	now     func() time.Time
}

// NewService builds an order service with the required dependencies. Metrics
// may be nil.
func NewService(repo Repository, tx txRunner, catalog catalogReader, m *metrics.MarketplaceMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		catalog: catalog,
		metrics: m,
		now:     time.Now,
	}, nil
}

// Create opens a new order in pending. Stock sufficiency is advisory: a
// shortfall is reported alongside the order, never used to block creation.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if input.SellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item product id required")
		}
		if !item.Quantity.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.PricePerUnit.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	shortfalls := make([]InventoryShortfall, 0)
	total := decimal.Zero
	for _, line := range input.Items {
		product, err := s.catalog.FindProductByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		subtotal := line.Quantity.Mul(line.PricePerUnit)
		total = total.Add(subtotal)
		items = append(items, models.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  product.Name,
			Quantity:     line.Quantity,
			PricePerUnit: line.PricePerUnit,
			Subtotal:     subtotal,
		})

		available, err := s.catalog.SumAvailableQuantity(ctx, input.SellerID, line.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check available stock")
		}
		if line.Quantity.GreaterThan(available) {
			shortfalls = append(shortfalls, InventoryShortfall{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: available,
				Shortfall: line.Quantity.Sub(available),
			})
		}
	}

	logisticsFee := decimal.Zero
	if input.SourceLotID != nil {
		lot, err := s.catalog.FindLotByID(ctx, *input.SourceLotID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "source lot not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load source lot")
		}
		if lot.SupplierID != input.SellerID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "source lot does not belong to seller")
		}
		if lot.LogisticsPrice != nil {
			logisticsFee = *lot.LogisticsPrice
			total = total.Add(logisticsFee)
		}
	}

	order := &models.Order{
		BuyerID:       input.BuyerID,
		SellerID:      input.SellerID,
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusUnpaid,
		PayoutStatus:  enums.PayoutStatusPending,
		TotalAmount:   total,
		LogisticsFee:  logisticsFee,
		Items:         items,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	return &CreateOrderResult{
		Order:               NewOrderDTO(order),
		InventoryShortfalls: shortfalls,
	}, nil
}

func (s *service) Accept(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	return s.transition(ctx, orderID, enums.OrderStatusPending, enums.OrderStatusConfirmed, func(order *models.Order, now time.Time, updates map[string]any) error {
		updates["confirmed_at"] = now
		order.ConfirmedAt = &now
		return nil
	})
}

func (s *service) Pack(ctx context.Context, orderID uuid.UUID, packerID string) (*OrderDTO, error) {
	packer := strings.TrimSpace(packerID)
	if packer == "" {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "packer identity required")
	}
	return s.transition(ctx, orderID, enums.OrderStatusConfirmed, enums.OrderStatusReadyForDelivery, func(order *models.Order, now time.Time, updates map[string]any) error {
		logistics := ensureLogistics(order)
		logistics.Notes = append(logistics.Notes, fmt.Sprintf("packed by %s", packer))
		updates["packed_at"] = now
		updates["logistics"] = logistics
		order.PackedAt = &now
		return nil
	})
}

func (s *service) Dispatch(ctx context.Context, orderID uuid.UUID, driverID string) (*OrderDTO, error) {
	driver := strings.TrimSpace(driverID)
	if driver == "" {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "driver identity required")
	}
	return s.transition(ctx, orderID, enums.OrderStatusReadyForDelivery, enums.OrderStatusShipped, func(order *models.Order, now time.Time, updates map[string]any) error {
		logistics := ensureLogistics(order)
		logistics.DriverName = driver
		updates["shipped_at"] = now
		updates["logistics"] = logistics
		order.ShippedAt = &now
		return nil
	})
}

func (s *service) Deliver(ctx context.Context, orderID uuid.UUID, driverID, proofPhotoRef string) (*OrderDTO, error) {
	proof := strings.TrimSpace(proofPhotoRef)
	if proof == "" {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "proof of delivery required")
	}
	return s.transition(ctx, orderID, enums.OrderStatusShipped, enums.OrderStatusDelivered, func(order *models.Order, now time.Time, updates map[string]any) error {
		logistics := ensureLogistics(order)
		if driver := strings.TrimSpace(driverID); driver != "" {
			logistics.DriverName = driver
		}
		logistics.DeliveryPhotoRef = proof
		updates["delivered_at"] = now
		updates["logistics"] = logistics
		order.DeliveredAt = &now
		return nil
	})
}

// Cancel moves any non-terminal order to canceled. Cancelling an already
// canceled order is a no-op so retries stay safe.
func (s *service) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*OrderDTO, error) {
	var result *models.Order
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.Status == enums.OrderStatusCanceled {
			result = order
			return nil
		}
		if order.Status == enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivered order cannot be canceled")
		}

		now := s.now().UTC()
		from := order.Status
		updates := map[string]any{
			"status":      enums.OrderStatusCanceled,
			"canceled_at": now,
		}
		if reason != "" {
			updates["cancel_reason"] = reason
			order.CancelReason = &reason
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: cancel order")
		}
		order.Status = enums.OrderStatusCanceled
		order.CanceledAt = &now
		s.metrics.IncOrderTransition(from.String(), enums.OrderStatusCanceled.String())
		result = order
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	return NewOrderDTO(result), nil
}

// ReportIssue records a problem against a delivered order. The SLA window is
// policy metadata; only the timestamp is written here.
func (s *service) ReportIssue(ctx context.Context, input ReportIssueInput) (*OrderDTO, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid issue type")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "issue description required")
	}

	var result *models.Order
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "issues can only be reported on delivered orders")
		}
		if order.Issue != nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "order already has an issue")
		}

		issue := &models.OrderIssue{
			OrderID:     order.ID,
			Type:        input.Type,
			Description: input.Description,
			ReportedAt:  s.now().UTC(),
		}
		created, err := repo.CreateIssue(ctx, issue)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert issue")
		}
		order.Issue = created
		result = order
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "report issue")
	}
	return NewOrderDTO(result), nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

func (s *service) ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*OrderPage, error) {
	limit, cursor, err := normalizePage(params)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.ListOrdersForBuyer(ctx, buyerID, pagination.LimitWithBuffer(limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list buyer orders")
	}
	return buildOrderPage(orders, limit), nil
}

func (s *service) ListForSeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*OrderPage, error) {
	limit, cursor, err := normalizePage(params)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.ListOrdersForSeller(ctx, sellerID, pagination.LimitWithBuffer(limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list seller orders")
	}
	return buildOrderPage(orders, limit), nil
}

func normalizePage(params pagination.Params) (int, *pagination.Cursor, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return 0, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return pagination.NormalizeLimit(params.Limit), cursor, nil
}

func buildOrderPage(orders []models.Order, limit int) *OrderPage {
	page := &OrderPage{}
	if len(orders) > limit {
		orders = orders[:limit]
		last := orders[limit-1]
		page.NextCursor = pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	page.Orders = mapOrders(orders)
	return page
}

// transition applies one forward step. The row is re-read inside the
// transaction and the from-state checked there, so two racing calls cannot
// both apply; the loser fails closed with a state conflict.
func (s *service) transition(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, apply func(order *models.Order, now time.Time, updates map[string]any) error) (*OrderDTO, error) {
	var result *models.Order
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.Status != from {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("%s is not allowed from %s", to, order.Status)).
				WithDetails(map[string]string{"current": order.Status.String(), "target": to.String()})
		}

		now := s.now().UTC()
		updates := map[string]any{"status": to}
		if err := apply(order, now, updates); err != nil {
			return err
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
		}
		order.Status = to
		s.metrics.IncOrderTransition(from.String(), to.String())
		result = order
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition order")
	}
	return NewOrderDTO(result), nil
}

func (s *service) loadOrder(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func ensureLogistics(order *models.Order) *types.Logistics {
	if order.Logistics == nil {
		order.Logistics = &types.Logistics{}
	}
	return order.Logistics
}

func mapOrders(orders []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *NewOrderDTO(&orders[i]))
	}
	return dtos
}
