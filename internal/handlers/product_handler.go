package handlers

import (
	"net/http"

	"dukaan_backend/internal/repositories"
	"dukaan_backend/internal/services"
	"dukaan_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	*BaseHandler
	productService services.ProductService
	reportService  services.ReportService
}

func NewProductHandler(base *BaseHandler, productService services.ProductService, reportService services.ReportService) *ProductHandler {
	return &ProductHandler{
		BaseHandler:    base,
		productService: productService,
		reportService:  reportService,
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("/", h.List)
		products.POST("/", h.Create)
		products.GET("/report/", h.Report)
		products.GET("/low-stock/", h.LowStock)
		products.GET("/:id/", h.Get)
		products.PUT("/:id/", h.Update)
		products.PATCH("/:id/", h.Update)
		products.DELETE("/:id/", h.Delete)
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	var filter repositories.ProductFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 50
	}

	products, total, err := h.productService.List(h.GetDB(c), shopID, filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Results:  products,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

func (h *ProductHandler) Create(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	var req dto.CreateProductRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	product, err := h.productService.Create(h.GetDB(c), shopID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Get(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	product, err := h.productService.Get(h.GetDB(c), shopID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	product, err := h.productService.Update(h.GetDB(c), shopID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(h.GetDB(c), shopID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	products, err := h.productService.LowStock(h.GetDB(c), shopID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Report is the inventory snapshot used for the stock printout.
func (h *ProductHandler) Report(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	report, err := h.reportService.ProductReport(h.GetDB(c), shopID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
