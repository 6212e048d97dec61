package directory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

// UserDTO is the directory view of an account.
type UserDTO struct {
	ID              uuid.UUID      `json:"id"`
	Email           string         `json:"email"`
	BusinessName    string         `json:"business_name"`
	ContactName     string         `json:"contact_name"`
	Role            enums.UserRole `json:"role"`
	Region          string         `json:"region,omitempty"`
	BuyingInterests []string       `json:"buying_interests"`
	IsActive        bool           `json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
}

// PartnerDTO is a buyer-facing view of one direct-partner supplier.
type PartnerDTO struct {
	SupplierID   uuid.UUID      `json:"supplier_id"`
	BusinessName string         `json:"business_name"`
	ContactName  string         `json:"contact_name"`
	Role         enums.UserRole `json:"role"`
	Region       string         `json:"region,omitempty"`
	ConnectedAt  time.Time      `json:"connected_at"`
}

// CustomerDTO is the commercial account view returned by the service.
type CustomerDTO struct {
	ID                  uuid.UUID              `json:"id"`
	BusinessName        string                 `json:"business_name"`
	ContactName         string                 `json:"contact_name,omitempty"`
	Location            string                 `json:"location,omitempty"`
	Category            string                 `json:"category,omitempty"`
	ConnectedSupplierID uuid.UUID              `json:"connected_supplier_id"`
	ConnectionStatus    enums.ConnectionStatus `json:"connection_status"`
	Markup              decimal.Decimal        `json:"markup"`
	PaymentTermsDays    int                    `json:"payment_terms_days"`
	SourceRequestID     *uuid.UUID             `json:"source_request_id,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
}

// NewUserDTO maps a user row into its service view.
func NewUserDTO(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:              user.ID,
		Email:           user.Email,
		BusinessName:    user.BusinessName,
		ContactName:     user.ContactName,
		Role:            user.Role,
		Region:          user.Region,
		BuyingInterests: append([]string{}, user.BuyingInterests...),
		IsActive:        user.IsActive,
		CreatedAt:       user.CreatedAt,
	}
}

// NewCustomerDTO maps a customer row into its service view.
func NewCustomerDTO(customer *models.Customer) *CustomerDTO {
	if customer == nil {
		return nil
	}
	return &CustomerDTO{
		ID:                  customer.ID,
		BusinessName:        customer.BusinessName,
		ContactName:         customer.ContactName,
		Location:            customer.Location,
		Category:            customer.Category,
		ConnectedSupplierID: customer.ConnectedSupplierID,
		ConnectionStatus:    customer.ConnectionStatus,
		Markup:              customer.Markup,
		PaymentTermsDays:    customer.PaymentTermsDays,
		SourceRequestID:     customer.SourceRequestID,
		CreatedAt:           customer.CreatedAt,
	}
}
