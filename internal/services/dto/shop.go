package dto

type UpdateShopRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Address      *string `json:"address,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty" validate:"omitempty,min=7,max=15"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	Language     *string `json:"language,omitempty" validate:"omitempty,max=10"`
}

type CreateCustomerRequest struct {
	Name   string `json:"name" validate:"required,min=2"`
	Mobile string `json:"mobile" validate:"required,min=7,max=15"`
}

type UpdateCustomerRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Mobile *string `json:"mobile,omitempty" validate:"omitempty,min=7,max=15"`
}

type ListResponse struct {
	Results  interface{} `json:"results"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
