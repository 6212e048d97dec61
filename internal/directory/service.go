package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pzfresh/pzfresh-backend/pkg/config"
	"github.com/pzfresh/pzfresh-backend/pkg/db"
	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
)

// Service exposes account, partnership and customer lifecycle operations.
type Service interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (*UserDTO, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	UpdateBuyingInterests(ctx context.Context, buyerID uuid.UUID, interests []string) (*UserDTO, error)
	ConnectPartner(ctx context.Context, buyerID, supplierID uuid.UUID) (*PartnerDTO, error)
	ListPartners(ctx context.Context, buyerID uuid.UUID) ([]PartnerDTO, error)
	ApproveRegistration(ctx context.Context, input ApproveRegistrationInput) (*CustomerDTO, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	ListCustomersForSupplier(ctx context.Context, supplierID uuid.UUID) ([]CustomerDTO, error)
}

// RegisterUserInput holds the validated payload to create an account.
type RegisterUserInput struct {
	Email           string
	BusinessName    string
	ContactName     string
	Role            enums.UserRole
	Region          string
	BuyingInterests []string
}

// ApproveRegistrationInput is the operator action that turns a vetted lead
// into a customer record outside the negotiation path.
type ApproveRegistrationInput struct {
	BusinessName string
	ContactName  string
	Location     string
	Category     string
	SupplierID   uuid.UUID
}

type service struct {
	repo       Repository
	commercial config.CommercialConfig
}

// NewService constructs a directory service instance.
func NewService(repo Repository, commercial config.CommercialConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("directory repository required")
	}
	return &service{repo: repo, commercial: commercial}, nil
}

func (s *service) RegisterUser(ctx context.Context, input RegisterUserInput) (*UserDTO, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if input.BusinessName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	user := &models.User{
		Email:           email,
		BusinessName:    input.BusinessName,
		ContactName:     input.ContactName,
		Role:            input.Role,
		Region:          input.Region,
		BuyingInterests: normalizeInterests(input.BuyingInterests),
		IsActive:        true,
	}
	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
	}
	return NewUserDTO(created), nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewUserDTO(user), nil
}

func (s *service) UpdateBuyingInterests(ctx context.Context, buyerID uuid.UUID, interests []string) (*UserDTO, error) {
	user, err := s.loadUser(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if user.Role != enums.UserRoleBuyer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only buyers carry buying interests")
	}

	normalized := normalizeInterests(interests)
	if err := s.repo.UpdateUser(ctx, user.ID, map[string]any{"buying_interests": normalized}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update interests")
	}
	user.BuyingInterests = normalized
	return NewUserDTO(user), nil
}

func (s *service) ConnectPartner(ctx context.Context, buyerID, supplierID uuid.UUID) (*PartnerDTO, error) {
	if buyerID == supplierID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer cannot partner with itself")
	}
	buyer, err := s.loadUser(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if buyer.Role != enums.UserRoleBuyer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "partnerships originate from buyers")
	}
	supplier, err := s.loadUser(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.Role.IsSupplier() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner must be a wholesaler or farmer")
	}

	partnership := &models.Partnership{
		BuyerID:    buyerID,
		SupplierID: supplierID,
		Status:     enums.PartnershipStatusActive,
	}
	created, err := s.repo.CreatePartnership(ctx, partnership)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "partnership already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert partnership")
	}

	return &PartnerDTO{
		SupplierID:   supplier.ID,
		BusinessName: supplier.BusinessName,
		ContactName:  supplier.ContactName,
		Role:         supplier.Role,
		Region:       supplier.Region,
		ConnectedAt:  created.CreatedAt,
	}, nil
}

func (s *service) ListPartners(ctx context.Context, buyerID uuid.UUID) ([]PartnerDTO, error) {
	partnerships, err := s.repo.ListPartnershipsForBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list partnerships")
	}

	supplierIDs := make([]uuid.UUID, 0, len(partnerships))
	connectedAt := make(map[uuid.UUID]models.Partnership, len(partnerships))
	for _, partnership := range partnerships {
		if partnership.Status != enums.PartnershipStatusActive {
			continue
		}
		supplierIDs = append(supplierIDs, partnership.SupplierID)
		connectedAt[partnership.SupplierID] = partnership
	}

	suppliers, err := s.repo.ListUsersByIDs(ctx, supplierIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load partner suppliers")
	}

	partners := make([]PartnerDTO, 0, len(suppliers))
	for i := range suppliers {
		supplier := suppliers[i]
		partners = append(partners, PartnerDTO{
			SupplierID:   supplier.ID,
			BusinessName: supplier.BusinessName,
			ContactName:  supplier.ContactName,
			Role:         supplier.Role,
			Region:       supplier.Region,
			ConnectedAt:  connectedAt[supplier.ID].CreatedAt,
		})
	}
	return partners, nil
}

// ApproveRegistration is the sole non-negotiation path that creates a
// customer. The record starts in pending connection with the default
// commercial terms.
func (s *service) ApproveRegistration(ctx context.Context, input ApproveRegistrationInput) (*CustomerDTO, error) {
	if input.BusinessName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name required")
	}
	supplier, err := s.loadUser(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.Role.IsSupplier() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer must connect to a wholesaler or farmer")
	}

	markup, err := decimal.NewFromString(s.commercial.DefaultMarkup)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse default markup")
	}

	customer := &models.Customer{
		BusinessName:        input.BusinessName,
		ContactName:         input.ContactName,
		Location:            input.Location,
		Category:            input.Category,
		ConnectedSupplierID: supplier.ID,
		ConnectionStatus:    enums.ConnectionStatusPendingConnection,
		Markup:              markup,
		PaymentTermsDays:    s.commercial.DefaultPaymentTermsDays,
	}
	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
	}
	return NewCustomerDTO(created), nil
}

func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return NewCustomerDTO(customer), nil
}

func (s *service) ListCustomersForSupplier(ctx context.Context, supplierID uuid.UUID) ([]CustomerDTO, error) {
	customers, err := s.repo.ListCustomersForSupplier(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list customers")
	}
	dtos := make([]CustomerDTO, 0, len(customers))
	for i := range customers {
		dtos = append(dtos, *NewCustomerDTO(&customers[i]))
	}
	return dtos, nil
}

func (s *service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func normalizeInterests(interests []string) pq.StringArray {
	normalized := pq.StringArray{}
	seen := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		token := strings.TrimSpace(strings.ToLower(interest))
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		normalized = append(normalized, token)
	}
	return normalized
}
