package dto

type InvoiceItemRequest struct {
	ProductID string  `json:"product" validate:"required,uuid4"`
	Qty       float64 `json:"qty" validate:"required,gt=0"`
}

type CreateInvoiceRequest struct {
	CustomerID     string               `json:"customer" validate:"omitempty,uuid4"`
	CustomerName   string               `json:"customer_name" validate:"omitempty,min=1"`
	CustomerMobile string               `json:"customer_mobile" validate:"omitempty,min=7,max=15"`
	PaymentMode    string               `json:"payment_mode" validate:"omitempty,oneof=cash upi card credit"`
	DiscountTotal  float64              `json:"discount_total" validate:"omitempty,min=0"`
	Items          []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}
