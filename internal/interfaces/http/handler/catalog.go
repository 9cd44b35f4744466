package handler

import (
	"time"

	"github.com/atelier/backend/internal/domain/catalog"
	"github.com/atelier/backend/internal/domain/company"
	"github.com/atelier/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogItemRequest is the payload for creating or editing a product
// or service. The price arrives as a string and is parsed as a
// decimal, never as a float.
type CatalogItemRequest struct {
	Name  string `json:"name" binding:"required"`
	Price string `json:"price" binding:"required"`
}

// CatalogItemResponse is a product or service in responses
type CatalogItemResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CatalogHandler handles the product and service catalog. The catalog
// lives only in the company aggregate; there is no remote counterpart.
type CatalogHandler struct {
	BaseHandler
	company *company.Company
	log     *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(co *company.Company, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{company: co, log: log}
}

// RegisterRoutes registers product and service routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
	services := rg.Group("/services")
	{
		services.GET("", h.ListServices)
		services.POST("", h.CreateService)
		services.PUT("/:id", h.UpdateService)
		services.DELETE("/:id", h.DeleteService)
	}
}

// ListProducts returns the product catalog in insertion order
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	snap := h.company.Snapshot()
	out := make([]CatalogItemResponse, 0, len(snap.Products))
	for i := range snap.Products {
		out = append(out, toProductResponse(&snap.Products[i]))
	}
	h.Success(c, out)
}

// CreateProduct adds a product to the catalog
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	req, price, ok := h.bindItem(c)
	if !ok {
		return
	}
	product, err := catalog.NewProduct(req.Name, price)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	// render before the aggregate takes ownership of the pointer
	resp := toProductResponse(product)
	h.company.AddProduct(product)
	h.log.Info("product added", zap.String("id", resp.ID), zap.String("name", resp.Name))
	h.Created(c, resp)
}

// UpdateProduct edits the identified product
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	req, price, ok := h.bindItem(c)
	if !ok {
		return
	}
	product, err := h.company.UpdateProduct(id, req.Name, price)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toProductResponse(&product))
}

// DeleteProduct removes the identified product from the catalog.
// Consumption already recorded against it keeps its captured name and
// price on the clients.
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.company.RemoveProduct(id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ListServices returns the service catalog in insertion order
func (h *CatalogHandler) ListServices(c *gin.Context) {
	snap := h.company.Snapshot()
	out := make([]CatalogItemResponse, 0, len(snap.Services))
	for i := range snap.Services {
		out = append(out, toServiceResponse(&snap.Services[i]))
	}
	h.Success(c, out)
}

// CreateService adds a service to the catalog
func (h *CatalogHandler) CreateService(c *gin.Context) {
	req, price, ok := h.bindItem(c)
	if !ok {
		return
	}
	service, err := catalog.NewService(req.Name, price)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	resp := toServiceResponse(service)
	h.company.AddService(service)
	h.log.Info("service added", zap.String("id", resp.ID), zap.String("name", resp.Name))
	h.Created(c, resp)
}

// UpdateService edits the identified service
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	req, price, ok := h.bindItem(c)
	if !ok {
		return
	}
	service, err := h.company.UpdateService(id, req.Name, price)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toServiceResponse(&service))
}

// DeleteService removes the identified service from the catalog
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.company.RemoveService(id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CatalogHandler) bindItem(c *gin.Context) (CatalogItemRequest, decimal.Decimal, bool) {
	var req CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidation), dto.ErrCodeValidation, err.Error())
		return req, decimal.Zero, false
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidation), dto.ErrCodeValidation, "Price must be a decimal number")
		return req, decimal.Zero, false
	}
	return req, price, true
}

func (h *CatalogHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid catalog item ID")
		return uuid.Nil, false
	}
	return id, true
}

func toProductResponse(p *catalog.Product) CatalogItemResponse {
	return CatalogItemResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Price:     p.Price.String(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toServiceResponse(s *catalog.Service) CatalogItemResponse {
	return CatalogItemResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Price:     s.Price.String(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
