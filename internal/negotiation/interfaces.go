package negotiation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

// Repository defines persistence operations for price requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateRequest(ctx context.Context, request *models.PriceRequest) (*models.PriceRequest, error)
	FindRequestByID(ctx context.Context, id uuid.UUID) (*models.PriceRequest, error)
	UpdateRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateRequestItem(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListRequestsForSupplier(ctx context.Context, supplierID uuid.UUID, status *enums.RequestStatus) ([]models.PriceRequest, error)
}
