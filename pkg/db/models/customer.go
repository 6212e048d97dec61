package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

// Customer is a commercial account bound to one supplier. Created only by a
// won negotiation or by registration approval. SourceRequestID is unique so a
// won price request can spawn at most one customer.
type Customer struct {
	ID                  uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessName        string                 `gorm:"column:business_name;not null"`
	ContactName         string                 `gorm:"column:contact_name"`
	Location            string                 `gorm:"column:location"`
	Category            string                 `gorm:"column:category"`
	ConnectedSupplierID uuid.UUID              `gorm:"column:connected_supplier_id;type:uuid;not null"`
	ConnectionStatus    enums.ConnectionStatus `gorm:"column:connection_status;type:connection_status;not null;default:'pending_connection'"`
	Markup              decimal.Decimal        `gorm:"column:markup;type:numeric(6,4);not null;default:0"`
	PaymentTermsDays    int                    `gorm:"column:payment_terms_days;not null;default:30"`
	SourceRequestID     *uuid.UUID             `gorm:"column:source_request_id;type:uuid;uniqueIndex"`
	CreatedAt           time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
