package sourcing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pzfresh/pzfresh-backend/pkg/db/models"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
)

type stubLotSource struct {
	lots []models.InventoryLot
}

func (s *stubLotSource) ListAvailableLots(ctx context.Context) ([]models.InventoryLot, error) {
	return s.lots, nil
}

type stubDirectorySource struct {
	users        map[uuid.UUID]*models.User
	partnerships []models.Partnership
}

func newStubDirectorySource() *stubDirectorySource {
	return &stubDirectorySource{users: make(map[uuid.UUID]*models.User)}
}

func (s *stubDirectorySource) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubDirectorySource) ListPartnershipsForBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Partnership, error) {
	partnerships := make([]models.Partnership, 0)
	for _, partnership := range s.partnerships {
		if partnership.BuyerID == buyerID {
			partnerships = append(partnerships, partnership)
		}
	}
	return partnerships, nil
}

func (s *stubDirectorySource) ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

type fixture struct {
	svc       Service
	lots      *stubLotSource
	directory *stubDirectorySource
	buyer     *models.User
}

func newFixture(t *testing.T, interests ...string) *fixture {
	t.Helper()
	directory := newStubDirectorySource()
	buyer := &models.User{
		ID:              uuid.New(),
		Email:           "bistro@example.com",
		BusinessName:    "Bistro Verde",
		Role:            enums.UserRoleBuyer,
		BuyingInterests: pq.StringArray(interests),
	}
	directory.users[buyer.ID] = buyer

	lots := &stubLotSource{}
	svc, err := NewService(lots, directory, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, lots: lots, directory: directory, buyer: buyer}
}

func (f *fixture) addSupplier(role enums.UserRole, region string) *models.User {
	supplier := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		BusinessName: "Supplier " + uuid.NewString()[:8],
		Role:         role,
		Region:       region,
	}
	f.directory.users[supplier.ID] = supplier
	return supplier
}

func (f *fixture) connect(supplierID uuid.UUID) {
	f.directory.partnerships = append(f.directory.partnerships, models.Partnership{
		ID:         uuid.New(),
		BuyerID:    f.buyer.ID,
		SupplierID: supplierID,
		Status:     enums.PartnershipStatusActive,
	})
}

func (f *fixture) addLot(supplierID uuid.UUID, name, variety string, status enums.LotStatus) *models.InventoryLot {
	lot := models.InventoryLot{
		ID:         uuid.New(),
		SupplierID: supplierID,
		ProductID:  uuid.New(),
		LotNumber:  int64(len(f.lots.lots) + 1),
		Quantity:   decimal.NewFromInt(25),
		Status:     status,
		Product: &models.Product{
			SupplierID:   supplierID,
			Name:         name,
			Variety:      variety,
			Unit:         enums.ProductUnitMass,
			DefaultPrice: decimal.NewFromFloat(3.00),
		},
	}
	if status == enums.LotStatusAvailable {
		f.lots.lots = append(f.lots.lots, lot)
	}
	return &lot
}

func TestDirectSupplyGroupsBySupplier(t *testing.T) {
	f := newFixture(t, "tomato")
	partner := f.addSupplier(enums.UserRoleWholesaler, "Norte")
	f.connect(partner.ID)
	stranger := f.addSupplier(enums.UserRoleFarmer, "Sur")

	// Direct supply ignores interests entirely.
	f.addLot(partner.ID, "Mango", "Kent", enums.LotStatusAvailable)
	f.addLot(partner.ID, "Papaya", "", enums.LotStatusAvailable)
	f.addLot(stranger.ID, "Tomato", "Roma", enums.LotStatusAvailable)

	groups, err := f.svc.ListDirectSupply(context.Background(), f.buyer.ID)
	if err != nil {
		t.Fatalf("direct supply: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected one partner group, got %d", len(groups))
	}
	group := groups[0]
	if group.SupplierID != partner.ID {
		t.Fatalf("expected partner group, got %s", group.SupplierID)
	}
	if group.BusinessName != partner.BusinessName {
		t.Fatalf("direct supply must expose full identity, got %q", group.BusinessName)
	}
	if len(group.Lots) != 2 {
		t.Fatalf("expected both partner lots, got %d", len(group.Lots))
	}
}

func TestDiscoveryFiltersByInterestSubstring(t *testing.T) {
	f := newFixture(t, "tomato", "avo")
	stranger := f.addSupplier(enums.UserRoleFarmer, "Sur")

	f.addLot(stranger.ID, "Heirloom TOMATOES", "", enums.LotStatusAvailable)
	f.addLot(stranger.ID, "Hass", "Avocado", enums.LotStatusAvailable)
	f.addLot(stranger.ID, "Papaya", "", enums.LotStatusAvailable)

	matches, err := f.svc.ListDiscoveryMatches(context.Background(), f.buyer.ID)
	if err != nil {
		t.Fatalf("discovery: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected two interest matches, got %d", len(matches))
	}
	for _, match := range matches {
		if match.Lot.ProductName == "Papaya" {
			t.Fatalf("papaya matches no interest and must be filtered")
		}
	}
}

func TestDiscoveryExcludesPartnersAndSelf(t *testing.T) {
	f := newFixture(t, "tomato")
	partner := f.addSupplier(enums.UserRoleWholesaler, "Norte")
	f.connect(partner.ID)

	f.addLot(partner.ID, "Tomato", "Roma", enums.LotStatusAvailable)
	f.addLot(f.buyer.ID, "Tomato", "Cherry", enums.LotStatusAvailable)

	matches, err := f.svc.ListDiscoveryMatches(context.Background(), f.buyer.ID)
	if err != nil {
		t.Fatalf("discovery: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("partner and own lots must not surface in discovery, got %d", len(matches))
	}
}

func TestDiscoveryAnonymizesSupplier(t *testing.T) {
	f := newFixture(t, "tomato")
	stranger := f.addSupplier(enums.UserRoleFarmer, "Valle Central")
	f.addLot(stranger.ID, "Tomato", "Roma", enums.LotStatusAvailable)

	matches, err := f.svc.ListDiscoveryMatches(context.Background(), f.buyer.ID)
	if err != nil {
		t.Fatalf("discovery: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	match := matches[0]
	if match.SupplierLabel == stranger.ID.String() {
		t.Fatalf("buyer-facing identity must not be the owner id")
	}
	if match.SupplierLabel != "Independent farm" {
		t.Fatalf("expected role label, got %q", match.SupplierLabel)
	}
	if match.SupplierRegion != "Valle Central" {
		t.Fatalf("expected region surfaced, got %q", match.SupplierRegion)
	}
	if match.SupplierLabel == stranger.BusinessName {
		t.Fatalf("business name must not leak into discovery")
	}
}

func TestDiscoveryEmptyInterests(t *testing.T) {
	f := newFixture(t)
	stranger := f.addSupplier(enums.UserRoleFarmer, "Sur")
	f.addLot(stranger.ID, "Tomato", "Roma", enums.LotStatusAvailable)

	matches, err := f.svc.ListDiscoveryMatches(context.Background(), f.buyer.ID)
	if err != nil {
		t.Fatalf("discovery: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("no interests means no discovery matches, got %d", len(matches))
	}
}

func TestProjectionIsRecomputable(t *testing.T) {
	f := newFixture(t, "tomato")
	stranger := f.addSupplier(enums.UserRoleFarmer, "Sur")
	f.addLot(stranger.ID, "Tomato", "Roma", enums.LotStatusAvailable)

	first, err := f.svc.ListDiscoveryMatches(context.Background(), f.buyer.ID)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := f.svc.ListDiscoveryMatches(context.Background(), f.buyer.ID)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("projection must be stable across reads: %d vs %d", len(first), len(second))
	}
}

func TestBuyerNotFound(t *testing.T) {
	f := newFixture(t, "tomato")

	_, err := f.svc.ListDirectSupply(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
