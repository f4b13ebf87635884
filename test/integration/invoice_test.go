package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dukaan_backend/internal/models"
	"dukaan_backend/test/helpers"
)

func createProduct(t *testing.T, ts *helpers.TestServer, token string, body map[string]interface{}) string {
	t.Helper()

	res, respBody := ts.SendRequest(t, http.MethodPost, "/api/products/", token, body)
	require.Equal(t, http.StatusCreated, res.StatusCode, respBody)

	var product struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(respBody), &product))
	require.NotEmpty(t, product.ID)
	return product.ID
}

func unlockedSession(t *testing.T, ts *helpers.TestServer) *helpers.Session {
	t.Helper()
	session := helpers.RegisterUniqueShop(t, ts)
	helpers.GrantSubscription(t, ts.DB, session.UserID)
	return session
}

func TestInvoiceFinalizeComputesTotalsAndDecrementsStock(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	session := unlockedSession(t, ts)

	productID := createProduct(t, ts, session.Access, map[string]interface{}{
		"name":     "Hand Soap",
		"price":    100.0,
		"tax_rate": 18.0,
		"quantity": 10.0,
	})

	res, body := ts.SendRequest(t, http.MethodPost, "/api/invoices/", session.Access, map[string]interface{}{
		"customer_name":   "Walk-in",
		"customer_mobile": "9876543210",
		"payment_mode":    "cash",
		"items": []map[string]interface{}{
			{"product": productID, "qty": 2},
		},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var invoice struct {
		ID         string  `json:"id"`
		Number     string  `json:"number"`
		Subtotal   float64 `json:"subtotal"`
		TaxTotal   float64 `json:"tax_total"`
		GrandTotal float64 `json:"grand_total"`
		Items      []struct {
			Oversold bool `json:"oversold"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &invoice))

	assert.NotEmpty(t, invoice.Number)
	assert.Equal(t, 200.0, invoice.Subtotal)
	assert.Equal(t, 36.0, invoice.TaxTotal)
	assert.Equal(t, 236.0, invoice.GrandTotal)
	require.Len(t, invoice.Items, 1)
	assert.False(t, invoice.Items[0].Oversold)

	var product models.Product
	require.NoError(t, ts.DB.First(&product, "id = ?", productID).Error)
	assert.Equal(t, 8.0, product.Quantity, "stock decremented by the sold quantity")
}

func TestInvoiceOversellFlagsItem(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	session := unlockedSession(t, ts)

	productID := createProduct(t, ts, session.Access, map[string]interface{}{
		"name":     "Sugar 1kg",
		"price":    45.0,
		"quantity": 1.0,
	})

	res, body := ts.SendRequest(t, http.MethodPost, "/api/invoices/", session.Access, map[string]interface{}{
		"payment_mode": "cash",
		"items": []map[string]interface{}{
			{"product": productID, "qty": 3},
		},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var invoice struct {
		Items []struct {
			Oversold bool `json:"oversold"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &invoice))
	require.Len(t, invoice.Items, 1)
	assert.True(t, invoice.Items[0].Oversold, "selling past stock is allowed but flagged")

	var product models.Product
	require.NoError(t, ts.DB.First(&product, "id = ?", productID).Error)
	assert.Equal(t, -2.0, product.Quantity)
}

func TestInvoiceEmptyItemsRejected(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	session := unlockedSession(t, ts)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/invoices/", session.Access, map[string]interface{}{
		"payment_mode": "cash",
		"items":        []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)
}

func TestInvoiceDeleteRestoresStock(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	session := unlockedSession(t, ts)

	productID := createProduct(t, ts, session.Access, map[string]interface{}{
		"name":     "Tea 250g",
		"price":    120.0,
		"quantity": 5.0,
	})

	res, body := ts.SendRequest(t, http.MethodPost, "/api/invoices/", session.Access, map[string]interface{}{
		"payment_mode": "cash",
		"items": []map[string]interface{}{
			{"product": productID, "qty": 2},
		},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var invoice struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &invoice))

	res, body = ts.SendRequest(t, http.MethodDelete, "/api/invoices/"+invoice.ID+"/", session.Access, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode, body)

	var product models.Product
	require.NoError(t, ts.DB.First(&product, "id = ?", productID).Error)
	assert.Equal(t, 5.0, product.Quantity, "voiding the invoice puts the stock back")
}

func TestProductDeleteIsSoftDeactivate(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	session := unlockedSession(t, ts)

	productID := createProduct(t, ts, session.Access, map[string]interface{}{
		"name":     "Old Stock Item",
		"price":    10.0,
		"quantity": 2.0,
	})

	res, body := ts.SendRequest(t, http.MethodDelete, "/api/products/"+productID+"/", session.Access, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode, body)

	// The row survives for invoice history, just deactivated.
	var product models.Product
	require.NoError(t, ts.DB.First(&product, "id = ?", productID).Error)
	assert.False(t, product.IsActive)
}

func TestShopScopingHidesOtherShopsData(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	first := unlockedSession(t, ts)
	second := unlockedSession(t, ts)

	productID := createProduct(t, ts, first.Access, map[string]interface{}{
		"name":     "Private Item",
		"price":    50.0,
		"quantity": 1.0,
	})

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/products/"+productID+"/", second.Access, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode, "another shop's product reads as missing")
}

func TestInvoiceReport(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	session := unlockedSession(t, ts)

	productID := createProduct(t, ts, session.Access, map[string]interface{}{
		"name":     "Reported Item",
		"price":    100.0,
		"tax_rate": 18.0,
		"quantity": 10.0,
	})

	res, body := ts.SendRequest(t, http.MethodPost, "/api/invoices/", session.Access, map[string]interface{}{
		"payment_mode": "cash",
		"items": []map[string]interface{}{
			{"product": productID, "qty": 2},
		},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/invoices/report/", session.Access, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var report struct {
		Today struct {
			InvoiceCount int64   `json:"invoice_count"`
			Revenue      float64 `json:"revenue"`
			TaxCollected float64 `json:"tax_collected"`
		} `json:"today"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &report))
	assert.Equal(t, int64(1), report.Today.InvoiceCount)
	assert.Equal(t, 236.0, report.Today.Revenue)
	assert.Equal(t, 36.0, report.Today.TaxCollected)
}
