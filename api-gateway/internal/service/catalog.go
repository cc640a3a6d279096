package service

//go:generate mockgen -source=catalog.go -destination=mock_catalog.go -package=service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	redisClient "github.com/Thanush-41/AgriXchange/api-gateway/internal/redis"
	"github.com/Thanush-41/AgriXchange/shared/auth"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

// ErrInvalidLogin is returned for a login without a phone number or with an unknown role
var ErrInvalidLogin = errors.New("invalid login request")

// Store is the catalog persistence
type Store interface {
	SaveProduct(ctx context.Context, p *models.Product) error
	Products(ctx context.Context) ([]models.Product, error)
	OpenRoom(ctx context.Context, room *models.Room) error
	ListingRooms(ctx context.Context) (map[string]*models.Room, error)
	RoomStats(ctx context.Context, roomIDs []string) (map[string]redisClient.RoomStats, error)
}

// Catalog is what the HTTP handlers need
type Catalog interface {
	ActiveListings(ctx context.Context) ([]models.Listing, error)
	Products(ctx context.Context) ([]models.Product, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
}

// CatalogService serves products, live listings and mock logins
type CatalogService struct {
	store Store
	auth  *auth.Authenticator
	now   func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store Store, authn *auth.Authenticator) *CatalogService {
	return &CatalogService{
		store: store,
		auth:  authn,
		now:   time.Now,
	}
}

// Products returns all active products
func (s *CatalogService) Products(ctx context.Context) ([]models.Product, error) {
	all, err := s.store.Products(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(all))
	for _, p := range all {
		if p.IsActive {
			products = append(products, p)
		}
	}
	return products, nil
}

// ActiveListings returns wholesale products open for bidding, each with its
// bidding room and live activity
func (s *CatalogService) ActiveListings(ctx context.Context) ([]models.Listing, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.store.ListingRooms(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	listings := make([]models.Listing, 0, len(products))
	roomIDs := make([]string, 0, len(rooms))
	for _, p := range products {
		if !biddingOpen(p, now) {
			continue
		}

		l := models.Listing{Product: p, CurrentBid: p.StartingPrice}
		if p.BiddingEndTime != nil {
			l.TimeLeft = models.TimeLeft(p.BiddingEndTime.Sub(now))
		}
		if room, ok := rooms[p.ID]; ok {
			l.BiddingRoom = &models.RoomRef{ID: room.ID}
			if room.CurrentPrice > l.CurrentBid {
				l.CurrentBid = room.CurrentPrice
			}
			roomIDs = append(roomIDs, room.ID)
		}
		listings = append(listings, l)
	}

	stats, err := s.store.RoomStats(ctx, roomIDs)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		st := stats[listings[i].RoomID()]
		listings[i].Participants = st.Participants
		listings[i].BidCount = st.Bids
	}
	return listings, nil
}

// Login signs in a mock user for the phone number and role.
// There is no password check.
func (s *CatalogService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone == "" || !req.Role.Valid() {
		return nil, ErrInvalidLogin
	}

	now := s.now().UTC()
	user := models.User{
		ID:        uuid.NewString(),
		Name:      mockName(req.Role),
		Phone:     phone,
		Role:      req.Role,
		Address:   "123 Main St, City, State",
		CreatedAt: now,
		UpdatedAt: now,
	}

	token, err := s.auth.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.LoginResult{User: user, Token: token}, nil
}

func biddingOpen(p models.Product, now time.Time) bool {
	if p.Type != models.ProductTypeWholesale || !p.IsActive {
		return false
	}
	if p.BiddingStatus != models.BiddingStatusActive {
		return false
	}
	return p.BiddingEndTime == nil || p.BiddingEndTime.After(now)
}

func mockName(role models.Role) string {
	switch role {
	case models.RoleFarmer:
		return "John Farmer"
	case models.RoleTrader:
		return "Jane Trader"
	default:
		return "Bob User"
	}
}
