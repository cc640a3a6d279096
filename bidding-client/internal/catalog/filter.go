package catalog

import (
	"sort"
	"strings"

	"github.com/Thanush-41/AgriXchange/shared/models"
)

// Product sort orders
const (
	SortLatest    = "latest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortPopular   = "popular"
)

// Listing sort orders
const (
	SortEndingSoon = "ending-soon"
	SortHighestBid = "highest-bid"
	SortLowestBid  = "lowest-bid"
	SortMostBids   = "most-bids"
)

// Filter narrows and orders retail products.
// A MaxPrice of zero or less means no upper bound.
type Filter struct {
	Query    string
	Category string
	MinPrice float64
	MaxPrice float64
	Sort     string
}

// Apply returns the products matching f in f's order. The input is not modified.
func (f Filter) Apply(products []models.Product) []models.Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if p.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortPopular:
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

// ListingFilter narrows and orders bidding listings
type ListingFilter struct {
	Query    string
	Category string
	Sort     string
}

// Apply returns the listings matching f in f's order. The input is not modified.
func (f ListingFilter) Apply(listings []models.Listing) []models.Listing {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if q != "" &&
			!strings.Contains(strings.ToLower(l.Name), q) &&
			!strings.Contains(strings.ToLower(l.Description), q) {
			continue
		}
		if f.Category != "" && l.Category != f.Category {
			continue
		}
		out = append(out, l)
	}

	switch f.Sort {
	case SortHighestBid:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CurrentBid > out[j].CurrentBid })
	case SortLowestBid:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CurrentBid < out[j].CurrentBid })
	case SortMostBids:
		sort.SliceStable(out, func(i, j int) bool { return out[i].BidCount > out[j].BidCount })
	case SortEndingSoon:
		sort.SliceStable(out, func(i, j int) bool { return endsBefore(out[i], out[j]) })
	}
	return out
}

// endsBefore orders listings by end time, listings without one last
func endsBefore(a, b models.Listing) bool {
	switch {
	case a.BiddingEndTime == nil:
		return false
	case b.BiddingEndTime == nil:
		return true
	default:
		return a.BiddingEndTime.Before(*b.BiddingEndTime)
	}
}
