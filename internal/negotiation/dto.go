package negotiation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/internal/directory"
	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

// RequestItemDTO is one product line of a price request.
type RequestItemDTO struct {
	ID               uuid.UUID        `json:"id"`
	ProductID        *uuid.UUID       `json:"product_id,omitempty"`
	ProductName      string           `json:"product_name"`
	Qty              decimal.Decimal  `json:"qty"`
	InvoicePrice     decimal.Decimal  `json:"invoice_price"`
	TargetPrice      decimal.Decimal  `json:"target_price"`
	OfferedPrice     *decimal.Decimal `json:"offered_price,omitempty"`
	IsMatchingTarget *bool            `json:"is_matching_target,omitempty"`
}

// RequestDTO is the full price-request snapshot returned by the service.
type RequestDTO struct {
	ID               uuid.UUID           `json:"id"`
	SupplierID       uuid.UUID           `json:"supplier_id"`
	CustomerContext  string              `json:"customer_context"`
	CustomerLocation string              `json:"customer_location,omitempty"`
	Status           enums.RequestStatus `json:"status"`
	Items            []RequestItemDTO    `json:"items"`
	SubmittedAt      *time.Time          `json:"submitted_at,omitempty"`
	DecidedAt        *time.Time          `json:"decided_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// FinalizeResult pairs the won request with the customer it spawned.
type FinalizeResult struct {
	Request  *RequestDTO            `json:"request"`
	Customer *directory.CustomerDTO `json:"customer"`
}

// ScoreDTO is the advisory acceptance estimate. Available is false when no
// scorer is configured.
type ScoreDTO struct {
	Probability float64 `json:"probability"`
	Available   bool    `json:"available"`
}

// NewRequestDTO maps a price-request row into its service view.
func NewRequestDTO(request *models.PriceRequest) *RequestDTO {
	if request == nil {
		return nil
	}
	dto := &RequestDTO{
		ID:               request.ID,
		SupplierID:       request.SupplierID,
		CustomerContext:  request.CustomerContext,
		CustomerLocation: request.CustomerLocation,
		Status:           request.Status,
		SubmittedAt:      request.SubmittedAt,
		DecidedAt:        request.DecidedAt,
		CreatedAt:        request.CreatedAt,
	}
	dto.Items = make([]RequestItemDTO, 0, len(request.Items))
	for _, item := range request.Items {
		dto.Items = append(dto.Items, RequestItemDTO{
			ID:               item.ID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			Qty:              item.Qty,
			InvoicePrice:     item.InvoicePrice,
			TargetPrice:      item.TargetPrice,
			OfferedPrice:     item.OfferedPrice,
			IsMatchingTarget: item.IsMatchingTarget,
		})
	}
	return dto
}
