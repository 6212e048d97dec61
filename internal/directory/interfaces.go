package directory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
)

// Repository defines persistence operations for users, partnerships and
// customer records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CreatePartnership(ctx context.Context, partnership *models.Partnership) (*models.Partnership, error)
	ListPartnershipsForBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Partnership, error)
	ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListCustomersForSupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Customer, error)
}
