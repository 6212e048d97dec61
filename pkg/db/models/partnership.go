package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

// Partnership records a named buyer-supplier connection. Suppliers outside a
// buyer's partnership set only ever surface through anonymized discovery.
type Partnership struct {
	ID         uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID    uuid.UUID               `gorm:"column:buyer_id;type:uuid;not null;uniqueIndex:idx_partnerships_pair"`
	SupplierID uuid.UUID               `gorm:"column:supplier_id;type:uuid;not null;uniqueIndex:idx_partnerships_pair"`
	Status     enums.PartnershipStatus `gorm:"column:status;type:partnership_status;not null;default:'active'"`
	CreatedAt  time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
