package handlers

import (
	"net/http"

	"dukaan_backend/internal/repositories"
	"dukaan_backend/internal/services"
	"dukaan_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	*BaseHandler
	invoiceService services.InvoiceService
	reportService  services.ReportService
}

func NewInvoiceHandler(base *BaseHandler, invoiceService services.InvoiceService, reportService services.ReportService) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler:    base,
		invoiceService: invoiceService,
		reportService:  reportService,
	}
}

func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.GET("/", h.List)
		invoices.POST("/", h.Create)
		invoices.GET("/report/", h.Report)
		invoices.GET("/:id/", h.Get)
		invoices.DELETE("/:id/", h.Delete)
	}
}

// Create finalizes a sale. There is no draft state server-side; the
// client's cart arrives here only when the sale is done.
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(h.GetDB(c), shopID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(h.GetDB(c), shopID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(h.GetDB(c), shopID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Report returns today's and this month's totals for the dashboard.
func (h *InvoiceHandler) Report(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	report, err := h.reportService.InvoiceReport(h.GetDB(c), shopID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *InvoiceHandler) List(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	var filter repositories.InvoiceFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 50
	}

	invoices, total, err := h.invoiceService.List(h.GetDB(c), shopID, filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Results:  invoices,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}
