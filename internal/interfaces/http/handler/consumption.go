package handler

import (
	appclient "github.com/atelier/backend/internal/application/client"
	domainclient "github.com/atelier/backend/internal/domain/client"
	"github.com/atelier/backend/internal/domain/company"
	"github.com/atelier/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConsumptionRequest identifies the catalog item being consumed
type ConsumptionRequest struct {
	ItemID string `json:"item_id" binding:"required,uuid"`
}

// ConsumptionHandler records product and service consumption against
// clients. The link captures the item's name and price at consumption
// time, so later catalog edits never rewrite history.
type ConsumptionHandler struct {
	BaseHandler
	repo    *appclient.Repository
	company *company.Company
	log     *zap.Logger
}

// NewConsumptionHandler creates a new consumption handler
func NewConsumptionHandler(repo *appclient.Repository, co *company.Company, log *zap.Logger) *ConsumptionHandler {
	return &ConsumptionHandler{repo: repo, company: co, log: log}
}

// RegisterRoutes registers consumption routes
func (h *ConsumptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.POST("/:id/consumptions/products", h.ConsumeProduct)
		clients.POST("/:id/consumptions/services", h.ConsumeService)
	}
}

// ConsumeProduct records that the client consumed a product
func (h *ConsumptionHandler) ConsumeProduct(c *gin.Context) {
	clientID, itemID, ok := h.bind(c)
	if !ok {
		return
	}

	product, err := h.company.FindProduct(itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	updated, err := h.repo.MutateClient(clientID, func(cl *domainclient.Client) error {
		cl.ConsumeProduct(&product)
		return nil
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toClientResponse(&updated))
}

// ConsumeService records that the client consumed a service
func (h *ConsumptionHandler) ConsumeService(c *gin.Context) {
	clientID, itemID, ok := h.bind(c)
	if !ok {
		return
	}

	service, err := h.company.FindService(itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	updated, err := h.repo.MutateClient(clientID, func(cl *domainclient.Client) error {
		cl.ConsumeService(&service)
		return nil
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toClientResponse(&updated))
}

func (h *ConsumptionHandler) bind(c *gin.Context) (clientID, itemID uuid.UUID, ok bool) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return uuid.Nil, uuid.Nil, false
	}

	var req ConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidation), dto.ErrCodeValidation, err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	itemID, err = uuid.Parse(req.ItemID)
	if err != nil {
		h.BadRequest(c, "Invalid catalog item ID")
		return uuid.Nil, uuid.Nil, false
	}
	return clientID, itemID, true
}
