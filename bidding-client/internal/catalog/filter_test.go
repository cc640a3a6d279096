package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Thanush-41/AgriXchange/shared/models"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func products() []models.Product {
	return []models.Product{
		{ID: "tomato", Name: "Fresh Tomatoes", Category: "vegetables", Price: 40, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "mango", Name: "Alphonso Mangoes", Description: "sweet and ripe", Category: "fruits", Price: 300, CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "rice", Name: "Basmati Rice", Category: "grains", Price: 120, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "banana", Name: "Bananas", Description: "Ripe Robusta", Category: "fruits", Price: 60, CreatedAt: now.Add(-4 * time.Hour)},
	}
}

func ids(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "default is latest", filter: Filter{}, want: []string{"mango", "rice", "tomato", "banana"}},
		{name: "query matches description case-insensitively", filter: Filter{Query: "RIPE"}, want: []string{"mango", "banana"}},
		{name: "query matches name", filter: Filter{Query: "rice"}, want: []string{"rice"}},
		{name: "category", filter: Filter{Category: "fruits", Sort: SortPriceAsc}, want: []string{"banana", "mango"}},
		{name: "price range", filter: Filter{MinPrice: 50, MaxPrice: 150, Sort: SortPriceDesc}, want: []string{"rice", "banana"}},
		{name: "no upper bound", filter: Filter{MinPrice: 100, Sort: SortPriceAsc}, want: []string{"rice", "mango"}},
		{name: "popular keeps input order", filter: Filter{Sort: SortPopular}, want: []string{"tomato", "mango", "rice", "banana"}},
		{name: "nothing matches", filter: Filter{Query: "saffron"}, want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := products()
			got := tc.filter.Apply(in)
			require.Equal(t, tc.want, ids(got))
			require.Equal(t, "tomato", in[0].ID, "input untouched")
		})
	}
}

func listings() []models.Listing {
	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}
	return []models.Listing{
		{Product: models.Product{ID: "a", Name: "Wheat", Category: "grains", BiddingEndTime: at(5 * time.Hour)}, CurrentBid: 2000, BidCount: 3, Participants: 2},
		{Product: models.Product{ID: "b", Name: "Onion", Category: "vegetables", BiddingEndTime: at(30 * time.Minute)}, CurrentBid: 900, BidCount: 12, Participants: 5},
		{Product: models.Product{ID: "c", Name: "Rice", Category: "grains"}, CurrentBid: 3500, BidCount: 7, Participants: 4},
	}
}

func listingIDs(ls []models.Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}

func TestListingFilter_Apply(t *testing.T) {
	tests := []struct {
		name   string
		filter ListingFilter
		want   []string
	}{
		{name: "no sort keeps order", filter: ListingFilter{}, want: []string{"a", "b", "c"}},
		{name: "ending soon puts open-ended last", filter: ListingFilter{Sort: SortEndingSoon}, want: []string{"b", "a", "c"}},
		{name: "highest bid", filter: ListingFilter{Sort: SortHighestBid}, want: []string{"c", "a", "b"}},
		{name: "lowest bid", filter: ListingFilter{Sort: SortLowestBid}, want: []string{"b", "a", "c"}},
		{name: "most bids", filter: ListingFilter{Sort: SortMostBids}, want: []string{"b", "c", "a"}},
		{name: "category", filter: ListingFilter{Category: "grains", Sort: SortHighestBid}, want: []string{"c", "a"}},
		{name: "query", filter: ListingFilter{Query: "oni"}, want: []string{"b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, listingIDs(tc.filter.Apply(listings())))
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(listings())
	require.Equal(t, Stats{ActiveAuctions: 3, Bidders: 11, TotalBids: 22, HighestBid: 3500}, s)
	require.Equal(t, Stats{}, Summarize(nil))
}

func TestEndingSoonAndTimeLeft(t *testing.T) {
	ls := listings()

	require.False(t, EndingSoon(ls[0], now))
	require.True(t, EndingSoon(ls[1], now))
	require.False(t, EndingSoon(ls[2], now))
	require.False(t, EndingSoon(ls[1], now.Add(time.Hour)), "already ended")

	require.Equal(t, "5h 0m", TimeLeft(ls[0], now))
	require.Equal(t, "30m", TimeLeft(ls[1], now))

	ls[2].TimeLeft = "1h 10m"
	require.Equal(t, "1h 10m", TimeLeft(ls[2], now))
}
