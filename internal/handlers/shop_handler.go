package handlers

import (
	"net/http"

	"dukaan_backend/internal/services"
	"dukaan_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ShopHandler struct {
	*BaseHandler
	shopService services.ShopService
}

func NewShopHandler(base *BaseHandler, shopService services.ShopService) *ShopHandler {
	return &ShopHandler{
		BaseHandler: base,
		shopService: shopService,
	}
}

func (h *ShopHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/shop/", h.GetShop)
	rg.PATCH("/shop/", h.UpdateShop)

	customers := rg.Group("/customers")
	{
		customers.GET("/", h.ListCustomers)
		customers.POST("/", h.CreateCustomer)
		customers.GET("/:id/", h.GetCustomer)
		customers.PATCH("/:id/", h.UpdateCustomer)
		customers.DELETE("/:id/", h.DeleteCustomer)
	}
}

func (h *ShopHandler) GetShop(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	shop, err := h.shopService.GetShop(h.GetDB(c), shopID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

func (h *ShopHandler) UpdateShop(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	var req dto.UpdateShopRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	shop, err := h.shopService.UpdateShop(h.GetDB(c), shopID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

func (h *ShopHandler) ListCustomers(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	customers, total, err := h.shopService.ListCustomers(h.GetDB(c), shopID, c.Query("search"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Results:  customers,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *ShopHandler) CreateCustomer(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	var req dto.CreateCustomerRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	customer, err := h.shopService.CreateCustomer(h.GetDB(c), shopID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *ShopHandler) GetCustomer(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	customer, err := h.shopService.GetCustomer(h.GetDB(c), shopID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *ShopHandler) UpdateCustomer(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	var req dto.UpdateCustomerRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	customer, err := h.shopService.UpdateCustomer(h.GetDB(c), shopID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *ShopHandler) DeleteCustomer(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	if err := h.shopService.DeleteCustomer(h.GetDB(c), shopID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
