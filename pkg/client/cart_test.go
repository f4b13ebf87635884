package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	soap  = Product{ID: "p-soap", Name: "Soap", Price: 100, TaxRate: 18}
	sugar = Product{ID: "p-sugar", Name: "Sugar", Price: 45, TaxRate: 5}
)

func TestCartAddMergesQuantity(t *testing.T) {
	cart := NewCart()

	require.NoError(t, cart.Add(soap, 1))
	require.NoError(t, cart.Add(soap, 2))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3.0, lines[0].Qty)
}

func TestCartAddRejectsBadQuantity(t *testing.T) {
	cart := NewCart()
	assert.ErrorIs(t, cart.Add(soap, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.Add(soap, -1), ErrInvalidQuantity)
	assert.Equal(t, 0, cart.Len())
}

func TestCartUndoRestoresOnce(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(soap, 2))

	require.NoError(t, cart.Remove(soap.ID))
	assert.Equal(t, 0, cart.Len())

	require.NoError(t, cart.Undo())
	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, soap.ID, lines[0].ProductID)
	assert.Equal(t, 2.0, lines[0].Qty, "prior quantity comes back")

	// The slot is consumed.
	assert.ErrorIs(t, cart.Undo(), ErrNothingToUndo)
}

func TestCartUndoSlotIsLastWriteWins(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(soap, 1))
	require.NoError(t, cart.Add(sugar, 4))

	require.NoError(t, cart.Remove(soap.ID))
	require.NoError(t, cart.Remove(sugar.ID))

	// Only the second removal is recoverable.
	require.NoError(t, cart.Undo())
	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, sugar.ID, lines[0].ProductID)

	assert.ErrorIs(t, cart.Undo(), ErrNothingToUndo)
}

func TestCartTotalsRounding(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(soap, 2)) // 2 x 100 @ 18%

	totals := cart.Totals()
	assert.Equal(t, 200.0, totals.Subtotal)
	assert.Equal(t, 36.0, totals.Tax)
	assert.Equal(t, 236.0, totals.GrandTotal)
}

func TestCartTotalsRoundNotTruncate(t *testing.T) {
	cart := NewCart()
	// 3 x 33.33 = 99.99; 18% of 99.99 = 17.9982, which rounds to 18.00.
	require.NoError(t, cart.Add(Product{ID: "p", Price: 33.33, TaxRate: 18}, 3))

	totals := cart.Totals()
	assert.Equal(t, 99.99, totals.Subtotal)
	assert.Equal(t, 18.0, totals.Tax)
	assert.Equal(t, 117.99, totals.GrandTotal)
}

func TestCartFinalize(t *testing.T) {
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/invoices/", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Invoice{Number: "INV-0001", GrandTotal: 236})
	}))
	defer srv.Close()

	api := newTestClient(t, srv.URL, nil)
	cart := NewCart()
	require.NoError(t, cart.Add(soap, 2))

	invoice, err := cart.Finalize(context.Background(), api, FinalizeOptions{
		CustomerName:   "Asha",
		CustomerMobile: "9876543210",
		PaymentMode:    "upi",
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", invoice.Number)
	assert.Equal(t, 0, cart.Len(), "finalize clears the cart")
	assert.Equal(t, "Asha", gotBody["customer_name"])
	items := gotBody["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, soap.ID, item["product"])
	assert.Equal(t, 2.0, item["qty"])
}

func TestCartFinalizeEmpty(t *testing.T) {
	cart := NewCart()
	_, err := cart.Finalize(context.Background(), nil, FinalizeOptions{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCartFinalizeKeepsCartOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Invoice must contain at least one item"}`))
	}))
	defer srv.Close()

	api := newTestClient(t, srv.URL, nil)
	cart := NewCart()
	require.NoError(t, cart.Add(soap, 1))

	_, err := cart.Finalize(context.Background(), api, FinalizeOptions{})
	require.Error(t, err)
	assert.Equal(t, 1, cart.Len(), "failed finalize keeps the draft")
}
