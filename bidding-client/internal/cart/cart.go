// Package cart holds the retail shopping cart.
package cart

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Thanush-41/AgriXchange/shared/models"
)

// Cart errors
var (
	ErrNotRetail       = errors.New("cart: only retail products can be added")
	ErrInvalidQuantity = errors.New("cart: quantity must be positive")
	ErrBelowMinimum    = errors.New("cart: quantity below minimum order")
	ErrNotInCart       = errors.New("cart: product not in cart")
)

// Line is one product in the cart
type Line struct {
	Product  models.Product
	Quantity float64
	AddedAt  time.Time
}

// Subtotal is the price of the line
func (l Line) Subtotal() float64 {
	return l.Product.Price * l.Quantity
}

// Cart is safe for concurrent use
type Cart struct {
	mu    sync.Mutex
	lines map[string]*Line
	now   func() time.Time
}

// New returns an empty cart
func New() *Cart {
	return &Cart{
		lines: make(map[string]*Line),
		now:   time.Now,
	}
}

// Add puts qty of p in the cart, adding to any quantity already there
func (c *Cart) Add(p models.Product, qty float64) error {
	if p.Type != models.ProductTypeRetail {
		return ErrNotRetail
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	total := qty
	if l, ok := c.lines[p.ID]; ok {
		total += l.Quantity
	}
	if err := checkMinimum(p, total); err != nil {
		return err
	}

	if l, ok := c.lines[p.ID]; ok {
		l.Quantity = total
		l.Product = p
		return nil
	}
	c.lines[p.ID] = &Line{Product: p, Quantity: total, AddedAt: c.now()}
	return nil
}

// Update sets the quantity of a product already in the cart.
// A quantity of zero removes it.
func (c *Cart) Update(productID string, qty float64) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.lines[productID]
	if !ok {
		return ErrNotInCart
	}
	if qty == 0 {
		delete(c.lines, productID)
		return nil
	}
	if err := checkMinimum(l.Product, qty); err != nil {
		return err
	}
	l.Quantity = qty
	return nil
}

// Remove drops a product from the cart
func (c *Cart) Remove(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.lines[productID]; !ok {
		return ErrNotInCart
	}
	delete(c.lines, productID)
	return nil
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = make(map[string]*Line)
}

// Lines returns the cart contents in the order they were added
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, *l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].Product.ID < out[j].Product.ID
		}
		return out[i].AddedAt.Before(out[j].AddedAt)
	})
	return out
}

// Total is the price of everything in the cart
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Count is the number of distinct products in the cart
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func checkMinimum(p models.Product, qty float64) error {
	if p.MinOrderQuantity > 0 && qty < p.MinOrderQuantity {
		return fmt.Errorf("%w: %s needs at least %g %s", ErrBelowMinimum, p.Name, p.MinOrderQuantity, p.Unit)
	}
	return nil
}
