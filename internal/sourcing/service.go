package sourcing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pzfresh/pzfresh-backend/internal/catalog"
	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
	"github.com/pzfresh/pzfresh-backend/pkg/metrics"
)

// lotSource yields the network's available lots with their products loaded.
type lotSource interface {
	ListAvailableLots(ctx context.Context) ([]models.InventoryLot, error)
}

// directorySource resolves the buyer, its partner set and supplier identities.
type directorySource interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListPartnershipsForBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Partnership, error)
	ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}

// Service computes the sourcing projection. It holds no state of its own;
// every call recomputes from the catalog and directory reads.
type Service interface {
	ListDirectSupply(ctx context.Context, buyerID uuid.UUID) ([]SupplierGroup, error)
	ListDiscoveryMatches(ctx context.Context, buyerID uuid.UUID) ([]DiscoveryMatch, error)
}

type service struct {
	lots      lotSource
	directory directorySource
	metrics   *metrics.MarketplaceMetrics
	now       func() time.Time
}

// NewService builds the sourcing matcher. Metrics may be nil.
func NewService(lots lotSource, directory directorySource, m *metrics.MarketplaceMetrics) (Service, error) {
	if lots == nil {
		return nil, fmt.Errorf("lot source required")
	}
	if directory == nil {
		return nil, fmt.Errorf("directory source required")
	}
	return &service{
		lots:      lots,
		directory: directory,
		metrics:   m,
		now:       time.Now,
	}, nil
}

// ListDirectSupply returns every available lot held by the buyer's direct
// partners, grouped per supplier with full identity. Direct supply is not
// filtered by interest.
func (s *service) ListDirectSupply(ctx context.Context, buyerID uuid.UUID) ([]SupplierGroup, error) {
	start := s.now()
	if _, err := s.loadBuyer(ctx, buyerID); err != nil {
		return nil, err
	}
	partners, err := s.partnerSet(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	lots, err := s.lots.ListAvailableLots(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list available lots")
	}

	lotsBySupplier := make(map[uuid.UUID][]LotView)
	for i := range lots {
		lot := &lots[i]
		if _, ok := partners[lot.SupplierID]; !ok {
			continue
		}
		lotsBySupplier[lot.SupplierID] = append(lotsBySupplier[lot.SupplierID], newLotView(lot, start))
	}

	supplierIDs := make([]uuid.UUID, 0, len(lotsBySupplier))
	for supplierID := range lotsBySupplier {
		supplierIDs = append(supplierIDs, supplierID)
	}
	suppliers, err := s.directory.ListUsersByIDs(ctx, supplierIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load partner suppliers")
	}

	groups := make([]SupplierGroup, 0, len(suppliers))
	for i := range suppliers {
		supplier := suppliers[i]
		views := lotsBySupplier[supplier.ID]
		sort.Slice(views, func(a, b int) bool { return views[a].LotNumber < views[b].LotNumber })
		groups = append(groups, SupplierGroup{
			SupplierID:   supplier.ID,
			BusinessName: supplier.BusinessName,
			ContactName:  supplier.ContactName,
			Role:         supplier.Role,
			Region:       supplier.Region,
			Lots:         views,
		})
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].BusinessName < groups[b].BusinessName })

	s.metrics.ObserveMatchDuration("direct", s.now().Sub(start))
	return groups, nil
}

// ListDiscoveryMatches returns interest-matched lots from suppliers outside
// the buyer's partner network. A lot is retained iff its product name or
// variety contains one of the buyer's interest tokens, case-insensitively.
func (s *service) ListDiscoveryMatches(ctx context.Context, buyerID uuid.UUID) ([]DiscoveryMatch, error) {
	start := s.now()
	buyer, err := s.loadBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	partners, err := s.partnerSet(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	interests := make([]string, 0, len(buyer.BuyingInterests))
	for _, interest := range buyer.BuyingInterests {
		token := strings.ToLower(strings.TrimSpace(interest))
		if token != "" {
			interests = append(interests, token)
		}
	}
	if len(interests) == 0 {
		return []DiscoveryMatch{}, nil
	}

	lots, err := s.lots.ListAvailableLots(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list available lots")
	}

	type candidate struct {
		lot      *models.InventoryLot
		interest string
	}
	candidates := make([]candidate, 0)
	ownerIDs := make([]uuid.UUID, 0)
	seenOwners := make(map[uuid.UUID]struct{})
	for i := range lots {
		lot := &lots[i]
		if lot.SupplierID == buyerID {
			continue
		}
		if _, ok := partners[lot.SupplierID]; ok {
			continue
		}
		interest, ok := matchInterest(lot.Product, interests)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{lot: lot, interest: interest})
		if _, ok := seenOwners[lot.SupplierID]; !ok {
			seenOwners[lot.SupplierID] = struct{}{}
			ownerIDs = append(ownerIDs, lot.SupplierID)
		}
	}

	owners, err := s.directory.ListUsersByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load lot owners")
	}
	ownerByID := make(map[uuid.UUID]*models.User, len(owners))
	for i := range owners {
		ownerByID[owners[i].ID] = &owners[i]
	}

	matches := make([]DiscoveryMatch, 0, len(candidates))
	for _, c := range candidates {
		match := DiscoveryMatch{
			Lot:             newLotView(c.lot, start),
			SupplierLabel:   roleLabel(enums.UserRole("")),
			MatchedInterest: c.interest,
		}
		if owner, ok := ownerByID[c.lot.SupplierID]; ok {
			match.SupplierLabel = roleLabel(owner.Role)
			match.SupplierRegion = owner.Region
		}
		matches = append(matches, match)
	}

	s.metrics.ObserveMatchDuration("discovery", s.now().Sub(start))
	return matches, nil
}

func (s *service) loadBuyer(ctx context.Context, buyerID uuid.UUID) (*models.User, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	buyer, err := s.directory.FindUserByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "buyer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buyer")
	}
	return buyer, nil
}

func (s *service) partnerSet(ctx context.Context, buyerID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	partnerships, err := s.directory.ListPartnershipsForBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list partnerships")
	}
	partners := make(map[uuid.UUID]struct{}, len(partnerships))
	for _, partnership := range partnerships {
		if partnership.Status != enums.PartnershipStatusActive {
			continue
		}
		partners[partnership.SupplierID] = struct{}{}
	}
	return partners, nil
}

func matchInterest(product *models.Product, interests []string) (string, bool) {
	if product == nil {
		return "", false
	}
	name := strings.ToLower(product.Name)
	variety := strings.ToLower(product.Variety)
	for _, interest := range interests {
		if strings.Contains(name, interest) || strings.Contains(variety, interest) {
			return interest, true
		}
	}
	return "", false
}

func newLotView(lot *models.InventoryLot, now time.Time) LotView {
	view := LotView{
		LotID:          lot.ID,
		LotNumber:      lot.LotNumber,
		ProductID:      lot.ProductID,
		Quantity:       lot.Quantity,
		EffectivePrice: catalog.EffectiveLotPrice(lot, now),
		HarvestDate:    lot.HarvestDate,
		ExpiryDate:     lot.ExpiryDate,
	}
	if lot.Product != nil {
		view.ProductName = lot.Product.Name
		view.Variety = lot.Product.Variety
		view.Unit = lot.Product.Unit
	}
	return view
}

func roleLabel(role enums.UserRole) string {
	switch role {
	case enums.UserRoleFarmer:
		return "Independent farm"
	case enums.UserRoleWholesaler:
		return "Verified wholesaler"
	default:
		return "Network supplier"
	}
}
