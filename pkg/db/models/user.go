package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

// User represents any account on the platform: buyers, wholesalers, farmers
// and the central operator.
type User struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email           string         `gorm:"column:email;not null;uniqueIndex"`
	BusinessName    string         `gorm:"column:business_name;not null"`
	ContactName     string         `gorm:"column:contact_name;not null"`
	Role            enums.UserRole `gorm:"column:role;type:user_role;not null"`
	Region          string         `gorm:"column:region"`
	BuyingInterests pq.StringArray `gorm:"column:buying_interests;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive        bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
