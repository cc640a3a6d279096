package cart

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Thanush-41/AgriXchange/shared/models"
)

func retail(id string, price, minQty float64) models.Product {
	return models.Product{
		ID:               id,
		Name:             id,
		Type:             models.ProductTypeRetail,
		Unit:             "kg",
		Price:            price,
		MinOrderQuantity: minQty,
	}
}

func newTestCart() *Cart {
	c := New()
	tick := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return c
}

func TestCart_AddAndTotal(t *testing.T) {
	c := newTestCart()

	require.NoError(t, c.Add(retail("tomato", 40, 1), 2))
	require.NoError(t, c.Add(retail("mango", 300, 0), 1))
	require.NoError(t, c.Add(retail("tomato", 40, 1), 3))

	require.Equal(t, 2, c.Count())
	require.Equal(t, 40*5+300.0, c.Total())

	lines := c.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, "tomato", lines[0].Product.ID)
	require.Equal(t, 5.0, lines[0].Quantity)
	require.Equal(t, 200.0, lines[0].Subtotal())
}

func TestCart_AddErrors(t *testing.T) {
	tests := []struct {
		name    string
		product models.Product
		qty     float64
		wantErr error
	}{
		{name: "wholesale", product: models.Product{ID: "w", Type: models.ProductTypeWholesale}, qty: 1, wantErr: ErrNotRetail},
		{name: "zero quantity", product: retail("a", 10, 0), qty: 0, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", product: retail("a", 10, 0), qty: -1, wantErr: ErrInvalidQuantity},
		{name: "below minimum", product: retail("a", 10, 5), qty: 2, wantErr: ErrBelowMinimum},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCart()
			require.ErrorIs(t, c.Add(tc.product, tc.qty), tc.wantErr)
			require.Zero(t, c.Count())
		})
	}
}

func TestCart_UpdateRemoveClear(t *testing.T) {
	c := newTestCart()
	require.NoError(t, c.Add(retail("rice", 120, 2), 2))
	require.NoError(t, c.Add(retail("onion", 30, 0), 1))

	require.NoError(t, c.Update("rice", 4))
	require.Equal(t, 4*120+30.0, c.Total())

	require.ErrorIs(t, c.Update("rice", 1), ErrBelowMinimum)
	require.ErrorIs(t, c.Update("rice", -2), ErrInvalidQuantity)
	require.ErrorIs(t, c.Update("wheat", 1), ErrNotInCart)

	require.NoError(t, c.Update("onion", 0))
	require.Equal(t, 1, c.Count())

	require.ErrorIs(t, c.Remove("onion"), ErrNotInCart)
	require.NoError(t, c.Remove("rice"))
	require.Zero(t, c.Count())

	require.NoError(t, c.Add(retail("rice", 120, 2), 2))
	c.Clear()
	require.Zero(t, c.Count())
	require.Zero(t, c.Total())
	require.Empty(t, c.Lines())
}

func TestCart_Concurrent(t *testing.T) {
	c := New()
	p := retail("tomato", 40, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, c.Add(p, 1))
		}()
	}
	wg.Wait()

	require.Equal(t, 50.0, c.Lines()[0].Quantity)
	require.Equal(t, 2000.0, c.Total())
}
