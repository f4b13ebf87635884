package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Wire types mirroring the backend's JSON shapes. Only the fields the
// SDK consumes are declared.

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type Shop struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	Language     string `json:"language"`
}

type User struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	ShopID *string `json:"shop_id"`
	Shop   *Shop   `json:"shop,omitempty"`
}

type Product struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	SKU               string  `json:"sku"`
	Unit              string  `json:"unit"`
	Price             float64 `json:"price"`
	CostPrice         float64 `json:"cost_price"`
	TaxRate           float64 `json:"tax_rate"`
	Quantity          float64 `json:"quantity"`
	LowStockThreshold float64 `json:"low_stock_threshold"`
	IsActive          bool    `json:"is_active"`
}

type InvoiceItem struct {
	ProductID string  `json:"product"`
	Qty       float64 `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	TaxRate   float64 `json:"tax_rate"`
	LineTotal float64 `json:"line_total"`
	Oversold  bool    `json:"oversold"`
}

type Invoice struct {
	ID             string        `json:"id"`
	Number         string        `json:"number"`
	CustomerName   string        `json:"customer_name"`
	CustomerMobile string        `json:"customer_mobile"`
	InvoiceDate    time.Time     `json:"invoice_date"`
	Subtotal       float64       `json:"subtotal"`
	TaxTotal       float64       `json:"tax_total"`
	DiscountTotal  float64       `json:"discount_total"`
	GrandTotal     float64       `json:"grand_total"`
	PaymentMode    string        `json:"payment_mode"`
	Items          []InvoiceItem `json:"items"`
}

type Plan struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	PlanType     string  `json:"plan_type"`
	Duration     string  `json:"duration"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"duration_days"`
}

type SubscriptionDetail struct {
	PlanType      string `json:"plan_type"`
	IsTrial       bool   `json:"is_trial"`
	DaysRemaining int    `json:"days_remaining"`
	TrialUsed     bool   `json:"trial_used"`
}

type SubscriptionStatus struct {
	IsValid      bool               `json:"is_valid"`
	Subscription SubscriptionDetail `json:"subscription"`
}

type Order struct {
	OrderID   string  `json:"order_id"`
	Amount    int64   `json:"amount"`
	Currency  string  `json:"currency"`
	Key       string  `json:"key"`
	PlanID    string  `json:"plan_id"`
	PlanName  string  `json:"plan_name"`
	Price     float64 `json:"price"`
	UserName  string  `json:"user_name"`
	UserEmail string  `json:"user_email"`
}

type listPage[T any] struct {
	Results []T   `json:"results"`
	Total   int64 `json:"total"`
}

// --- Auth ---

// Login authenticates and persists the credential pair. The shop name
// is cached after the follow-up Me call, not here.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, "/token/", map[string]string{
		"email":    email,
		"password": password,
	}, &pair)
	if err != nil {
		return nil, err
	}

	creds, _ := c.store.Get()
	creds.AccessToken = pair.Access
	creds.RefreshToken = pair.Refresh
	if err := c.store.Set(creds); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Me fetches the current account and caches the shop name for display
// continuity across restarts.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/me/", nil, &user); err != nil {
		return nil, err
	}

	if user.Shop != nil {
		creds, ok := c.store.Get()
		if ok && creds.ShopName != user.Shop.Name {
			creds.ShopName = user.Shop.Name
			_ = c.store.Set(creds)
		}
	}
	return &user, nil
}

// --- Catalog ---

func (c *Client) ListProducts(ctx context.Context, search string) ([]Product, error) {
	path := "/products/"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var page listPage[Product]
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *Client) CreateProduct(ctx context.Context, product *Product) (*Product, error) {
	var created Product
	if err := c.do(ctx, http.MethodPost, "/products/", product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, product *Product) (*Product, error) {
	var updated Product
	path := fmt.Sprintf("/products/%s/", url.PathEscape(id))
	if err := c.do(ctx, http.MethodPut, path, product, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	path := fmt.Sprintf("/products/%s/", url.PathEscape(id))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// --- Sales ---

func (c *Client) ListInvoices(ctx context.Context) ([]Invoice, error) {
	var page listPage[Invoice]
	if err := c.do(ctx, http.MethodGet, "/invoices/", nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *Client) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	var invoice Invoice
	path := fmt.Sprintf("/invoices/%s/", url.PathEscape(id))
	if err := c.do(ctx, http.MethodGet, path, nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	path := fmt.Sprintf("/invoices/%s/", url.PathEscape(id))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// --- Subscription & payments ---

func (c *Client) SubscriptionPlans(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := c.do(ctx, http.MethodGet, "/subscription-plans/", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *Client) SubscriptionStatus(ctx context.Context) (*SubscriptionStatus, error) {
	var status SubscriptionStatus
	if err := c.do(ctx, http.MethodGet, "/payments/subscription-status/", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) StartTrial(ctx context.Context) (*SubscriptionStatus, error) {
	var resp struct {
		Status SubscriptionStatus `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/payments/start-trial/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Status, nil
}

func (c *Client) CreateOrder(ctx context.Context, planID string) (*Order, error) {
	var order Order
	err := c.do(ctx, http.MethodPost, "/payments/create-order/", map[string]string{
		"plan_id": planID,
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifyPayment posts the gateway's signed confirmation for server-side
// verification.
func (c *Client) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (*SubscriptionStatus, error) {
	var resp struct {
		Status SubscriptionStatus `json:"status"`
	}
	err := c.do(ctx, http.MethodPost, "/payments/verify-payment/", map[string]string{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Status, nil
}
