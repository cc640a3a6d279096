package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Thanush-41/AgriXchange/shared/logger"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

// Seed fills an empty catalog with sample products and opens a bidding room
// for each wholesale lot. It does nothing when products already exist.
func (s *CatalogService) Seed(ctx context.Context) error {
	existing, err := s.store.Products(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := s.now().UTC()
	samples := sampleProducts(now)
	for _, p := range samples {
		if err := s.store.SaveProduct(ctx, &p); err != nil {
			return err
		}
		if p.Type != models.ProductTypeWholesale {
			continue
		}

		room := &models.Room{
			ID:            uuid.NewString(),
			ListingID:     p.ID,
			Status:        models.RoomStatusActive,
			StartingPrice: p.StartingPrice,
			CurrentPrice:  p.StartingPrice,
			EndsAt:        *p.BiddingEndTime,
			CreatedAt:     now,
		}
		if err := s.store.OpenRoom(ctx, room); err != nil {
			return fmt.Errorf("failed to open room for %s: %w", p.ID, err)
		}
	}

	logger.Info("seeded catalog", map[string]any{"products": len(samples)})
	return nil
}

func sampleProducts(now time.Time) []models.Product {
	ends := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}
	farmer := func(name, address string) *models.User {
		return &models.User{Name: name, Role: models.RoleFarmer, Address: address}
	}

	return []models.Product{
		{
			ID: "retail-tomatoes", Name: "Fresh Tomatoes", Category: "vegetables",
			Description: "Fresh, organic tomatoes grown with care",
			Farmer:      farmer("Ravi Kumar", "Karnataka, India"),
			Type:        models.ProductTypeRetail, Unit: "kg", Quantity: 100, IsActive: true,
			Price: 40, MinOrderQuantity: 1, CreatedAt: now.Add(-72 * time.Hour),
		},
		{
			ID: "retail-basmati", Name: "Organic Basmati Rice", Category: "grains",
			Description: "Premium quality organic basmati rice",
			Farmer:      farmer("Priya Sharma", "Haryana, India"),
			Type:        models.ProductTypeRetail, Unit: "kg", Quantity: 500, IsActive: true,
			Price: 120, MinOrderQuantity: 5, CreatedAt: now.Add(-48 * time.Hour),
		},
		{
			ID: "retail-apples", Name: "Fresh Apples", Category: "fruits",
			Description: "Crisp and sweet apples from Himachal Pradesh",
			Farmer:      farmer("Suresh Singh", "Himachal Pradesh, India"),
			Type:        models.ProductTypeRetail, Unit: "kg", Quantity: 200, IsActive: true,
			Price: 180, MinOrderQuantity: 2, CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			ID: "lot-wheat", Name: "Organic Wheat", Category: "grains",
			Description: "Premium quality organic wheat from Punjab",
			Farmer:      farmer("Harpreet Singh", "Punjab, India"),
			Location:    models.Location{Address: "Ludhiana, Punjab"},
			Type:        models.ProductTypeWholesale, Unit: "kg", Quantity: 1000, IsActive: true,
			StartingPrice: 2000, QualityCertificate: "https://example.com/cert1.pdf",
			BiddingEndTime: ends(2 * time.Hour), BiddingStatus: models.BiddingStatusActive,
			CreatedAt: now.Add(-12 * time.Hour),
		},
		{
			ID: "lot-onions", Name: "Fresh Onions", Category: "vegetables",
			Description: "Grade A onions, freshly harvested",
			Farmer:      farmer("Rajesh Patel", "Maharashtra, India"),
			Location:    models.Location{Address: "Nashik, Maharashtra"},
			Type:        models.ProductTypeWholesale, Unit: "kg", Quantity: 2000, IsActive: true,
			StartingPrice: 1500, QualityCertificate: "https://example.com/cert2.pdf",
			BiddingEndTime: ends(45 * time.Minute), BiddingStatus: models.BiddingStatusActive,
			CreatedAt: now.Add(-6 * time.Hour),
		},
		{
			ID: "lot-basmati", Name: "Basmati Rice", Category: "grains",
			Description: "Premium basmati rice, export quality",
			Farmer:      farmer("Sukhwinder Kaur", "Punjab, India"),
			Location:    models.Location{Address: "Amritsar, Punjab"},
			Type:        models.ProductTypeWholesale, Unit: "kg", Quantity: 500, IsActive: true,
			StartingPrice: 4500, QualityCertificate: "https://example.com/cert3.pdf",
			BiddingEndTime: ends(5 * time.Hour), BiddingStatus: models.BiddingStatusActive,
			CreatedAt: now.Add(-3 * time.Hour),
		},
	}
}
