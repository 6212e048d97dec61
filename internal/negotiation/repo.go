package negotiation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a negotiation repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRequest(ctx context.Context, request *models.PriceRequest) (*models.PriceRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) FindRequestByID(ctx context.Context, id uuid.UUID) (*models.PriceRequest, error) {
	var request models.PriceRequest
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) UpdateRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PriceRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpdateRequestItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PriceRequestItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ListRequestsForSupplier(ctx context.Context, supplierID uuid.UUID, status *enums.RequestStatus) ([]models.PriceRequest, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("supplier_id = ?", supplierID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var requests []models.PriceRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
