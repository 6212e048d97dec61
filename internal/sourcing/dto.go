package sourcing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

// LotView is the buyer-facing slice of an available inventory lot.
type LotView struct {
	LotID          uuid.UUID         `json:"lot_id"`
	LotNumber      int64             `json:"lot_number"`
	ProductID      uuid.UUID         `json:"product_id"`
	ProductName    string            `json:"product_name"`
	Variety        string            `json:"variety,omitempty"`
	Unit           enums.ProductUnit `json:"unit"`
	Quantity       decimal.Decimal   `json:"quantity"`
	EffectivePrice decimal.Decimal   `json:"effective_price"`
	HarvestDate    *time.Time        `json:"harvest_date,omitempty"`
	ExpiryDate     *time.Time        `json:"expiry_date,omitempty"`
}

// SupplierGroup is one direct partner with every available lot it holds.
// Direct supply exposes full supplier identity.
type SupplierGroup struct {
	SupplierID   uuid.UUID      `json:"supplier_id"`
	BusinessName string         `json:"business_name"`
	ContactName  string         `json:"contact_name,omitempty"`
	Role         enums.UserRole `json:"role"`
	Region       string         `json:"region,omitempty"`
	Lots         []LotView      `json:"lots"`
}

// DiscoveryMatch is one interest-matched lot from outside the buyer's
// partner network. The supplier is anonymized: only a role label and region
// surface, never the owner id.
type DiscoveryMatch struct {
	Lot             LotView `json:"lot"`
	SupplierLabel   string  `json:"supplier_label"`
	SupplierRegion  string  `json:"supplier_region,omitempty"`
	MatchedInterest string  `json:"matched_interest"`
}
