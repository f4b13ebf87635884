package handlers

import (
	"net/http"

	"dukaan_backend/internal/services"
	"dukaan_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	*BaseHandler
	reportService services.ReportService
}

func NewReportHandler(base *BaseHandler, reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   base,
		reportService: reportService,
	}
}

func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/sales-summary/", h.Sales)
		reports.GET("/stock/", h.Stock)
	}
}

func (h *ReportHandler) Sales(c *gin.Context) {
	_, shopID, ok := h.GetShopScope(c)
	if !ok {
		return
	}

	var query dto.ReportQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	report, err := h.reportService.SalesReport(h.GetDB(c), shopID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Stock reuses the inventory snapshot under the reports prefix.
func (h *ReportHandler) Stock(c *gin.Context) {
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
