package client

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrLineNotFound    = errors.New("product is not in the cart")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// CartLine is one product in the draft sale. Price and tax are copied
// from the catalog at add time for display; the server recomputes both
// on finalize.
type CartLine struct {
	ProductID string
	Name      string
	Qty       float64
	UnitPrice float64
	TaxRate   float64
}

// CartTotals is the display estimate of the invoice the server will
// produce.
type CartTotals struct {
	Subtotal   float64
	Tax        float64
	GrandTotal float64
}

// Cart is the client-side invoice draft: merged lines, a one-slot
// undo buffer for removals, and 2-decimal totals.
type Cart struct {
	mu          sync.Mutex
	lines       []CartLine
	lastRemoved *CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// Add puts a product in the cart. Adding a product already present
// merges into the existing line instead of duplicating it.
func (c *Cart) Add(product Product, qty float64) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			c.lines[i].Qty += qty
			return nil
		}
	}
	c.lines = append(c.lines, CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Qty:       qty,
		UnitPrice: product.Price,
		TaxRate:   product.TaxRate,
	})
	return nil
}

// SetQty overwrites a line's quantity.
func (c *Cart) SetQty(productID string, qty float64) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Qty = qty
			return nil
		}
	}
	return ErrLineNotFound
}

// Remove drops a line and parks it in the undo slot. Removing another
// line before Undo overwrites the slot; only the last removal is
// recoverable.
func (c *Cart) Remove(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			removed := c.lines[i]
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.lastRemoved = &removed
			return nil
		}
	}
	return ErrLineNotFound
}

// Undo restores the last removed line exactly once.
func (c *Cart) Undo() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastRemoved == nil {
		return ErrNothingToUndo
	}
	line := *c.lastRemoved
	c.lastRemoved = nil

	for i := range c.lines {
		if c.lines[i].ProductID == line.ProductID {
			// The product was re-added meanwhile; merge back.
			c.lines[i].Qty += line.Qty
			return nil
		}
	}
	c.lines = append(c.lines, line)
	return nil
}

// Lines returns a copy of the current lines in add order.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Totals computes the display estimate with per-line 2-decimal
// rounding, matching the server's math.
func (c *Cart) Totals() CartTotals {
	c.mu.Lock()
	defer c.mu.Unlock()

	var t CartTotals
	for _, line := range c.lines {
		lineSubtotal := roundMoney(line.Qty * line.UnitPrice)
		lineTax := roundMoney(lineSubtotal * line.TaxRate / 100)
		t.Subtotal += lineSubtotal
		t.Tax += lineTax
	}
	t.Subtotal = roundMoney(t.Subtotal)
	t.Tax = roundMoney(t.Tax)
	t.GrandTotal = roundMoney(t.Subtotal + t.Tax)
	return t
}

// Clear empties the cart and the undo slot.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.lastRemoved = nil
}

// FinalizeOptions carries the customer fields of the sale.
type FinalizeOptions struct {
	CustomerName   string
	CustomerMobile string
	PaymentMode    string
}

// Finalize posts the draft as an invoice and clears the cart on
// success. The server's totals are authoritative.
func (c *Cart) Finalize(ctx context.Context, api *Client, opts FinalizeOptions) (*Invoice, error) {
	c.mu.Lock()
	if len(c.lines) == 0 {
		c.mu.Unlock()
		return nil, ErrEmptyCart
	}

	type itemPayload struct {
		Product string  `json:"product"`
		Qty     float64 `json:"qty"`
	}
	payload := struct {
		CustomerName   string        `json:"customer_name,omitempty"`
		CustomerMobile string        `json:"customer_mobile,omitempty"`
		PaymentMode    string        `json:"payment_mode,omitempty"`
		Items          []itemPayload `json:"items"`
	}{
		CustomerName:   opts.CustomerName,
		CustomerMobile: opts.CustomerMobile,
		PaymentMode:    opts.PaymentMode,
	}
	for _, line := range c.lines {
		payload.Items = append(payload.Items, itemPayload{Product: line.ProductID, Qty: line.Qty})
	}
	c.mu.Unlock()

	var invoice Invoice
	if err := api.do(ctx, http.MethodPost, "/invoices/", payload, &invoice); err != nil {
		return nil, err
	}

	c.Clear()
	return &invoice, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
