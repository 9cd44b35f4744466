package handler

import (
	"github.com/atelier/backend/internal/application/report"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportHandler serves the ranking and distribution reports. Every
// report is computed on demand from live state.
type ReportHandler struct {
	BaseHandler
	engine *report.Engine
	log    *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(engine *report.Engine, log *zap.Logger) *ReportHandler {
	return &ReportHandler{engine: engine, log: log}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/top-consumers", h.TopConsumers)
		reports.GET("/top-consumers-by-value", h.TopConsumersByValue)
		reports.GET("/top-products", h.TopProducts)
		reports.GET("/top-services", h.TopServices)
		reports.GET("/gender-distribution", h.GenderDistribution)
	}
}

// TopConsumers returns the clients that consumed the most items
func (h *ReportHandler) TopConsumers(c *gin.Context) {
	h.Success(c, h.engine.TopConsumers())
}

// TopConsumersByValue returns the clients that spent the most
func (h *ReportHandler) TopConsumersByValue(c *gin.Context) {
	h.Success(c, h.engine.TopConsumersByValue())
}

// TopProducts returns the most consumed products
func (h *ReportHandler) TopProducts(c *gin.Context) {
	h.Success(c, h.engine.TopProducts())
}

// TopServices returns the most consumed services
func (h *ReportHandler) TopServices(c *gin.Context) {
	h.Success(c, h.engine.TopServices())
}

// GenderDistribution returns the client count and percentage per
// declared gender.
func (h *ReportHandler) GenderDistribution(c *gin.Context) {
	h.Success(c, h.engine.GenderDistribution())
}
