package handler

import (
	appclient "github.com/atelier/backend/internal/application/client"
	domainclient "github.com/atelier/backend/internal/domain/client"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
	"github.com/atelier/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientHandler handles client management requests. Writes go through
// the dual-mode repository, so every mutation response says whether it
// reached the remote service or the local store.
type ClientHandler struct {
	BaseHandler
	repo *appclient.Repository
	log  *zap.Logger
}

// NewClientHandler creates a new client handler
func NewClientHandler(repo *appclient.Repository, log *zap.Logger) *ClientHandler {
	return &ClientHandler{repo: repo, log: log}
}

// RegisterRoutes registers client routes
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.GET("", h.List)
		clients.POST("", h.Create)
		clients.POST("/refresh", h.Refresh)
		clients.GET("/state", h.State)
		clients.POST("/state/clear", h.ClearError)
		clients.GET("/:id", h.Get)
		clients.PUT("/:id", h.Update)
		clients.DELETE("/:id", h.Delete)
		clients.POST("/:id/documents", h.AttachDocument)
		clients.POST("/:id/phones", h.AttachPhone)
	}
}

// List returns every known client: the remotely loaded list plus the
// ones saved locally while the remote service was down.
func (h *ClientHandler) List(c *gin.Context) {
	h.Success(c, toClientResponses(h.repo.AllClients()))
}

// Refresh reloads the client list from the remote service
func (h *ClientHandler) Refresh(c *gin.Context) {
	if err := h.repo.Refresh(c.Request.Context()); err != nil {
		state := h.repo.State()
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeRemoteUnavailable), dto.ErrCodeRemoteUnavailable, state.Error)
		return
	}
	h.Success(c, toStateResponse(h.repo.State()))
}

// State returns the repository's loading state and held list
func (h *ClientHandler) State(c *gin.Context) {
	h.Success(c, toStateResponse(h.repo.State()))
}

// ClearError acknowledges a load failure and returns to the last
// usable state.
func (h *ClientHandler) ClearError(c *gin.Context) {
	h.repo.ClearError()
	h.Success(c, toStateResponse(h.repo.State()))
}

// Get returns a single client by its ID
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := h.parseClientID(c)
	if !ok {
		return
	}
	found, err := h.repo.Get(id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toClientResponse(&found))
}

// Create registers a new client
func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidation), dto.ErrCodeValidation, err.Error())
		return
	}

	entity, err := domainclient.NewClient(req.Name, req.SocialName,
		valueobject.NewCPF(req.CPF), domainclient.Gender(req.Gender))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	for _, doc := range req.Documents {
		entity.AttachDocument(valueobject.NewRG(doc))
	}
	for _, phone := range req.Phones {
		entity.AttachPhone(valueobject.NewPhoneNumber(phone.AreaCode, phone.Number))
	}

	outcome, err := h.repo.Create(c.Request.Context(), entity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, toSaveResponse(outcome))
}

// Update edits a client's profile
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := h.parseClientID(c)
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidation), dto.ErrCodeValidation, err.Error())
		return
	}

	outcome, err := h.repo.UpdateProfile(c.Request.Context(), id,
		req.Name, req.SocialName, domainclient.Gender(req.Gender), valueobject.NewCPF(req.CPF))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toSaveResponse(outcome))
}

// Delete removes a client. For clients known to the remote service a
// remote failure aborts the whole operation.
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := h.parseClientID(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AttachDocument adds an identity document to a client
func (h *ClientHandler) AttachDocument(c *gin.Context) {
	id, ok := h.parseClientID(c)
	if !ok {
		return
	}

	var req AttachDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidation), dto.ErrCodeValidation, err.Error())
		return
	}

	updated, err := h.repo.MutateClient(id, func(cl *domainclient.Client) error {
		cl.AttachDocument(valueobject.NewRG(req.Document))
		return nil
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toClientResponse(&updated))
}

// AttachPhone adds a phone number to a client
func (h *ClientHandler) AttachPhone(c *gin.Context) {
	id, ok := h.parseClientID(c)
	if !ok {
		return
	}

	var req PhonePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidation), dto.ErrCodeValidation, err.Error())
		return
	}

	updated, err := h.repo.MutateClient(id, func(cl *domainclient.Client) error {
		cl.AttachPhone(valueobject.NewPhoneNumber(req.AreaCode, req.Number))
		return nil
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toClientResponse(&updated))
}

// parseClientID resolves the :id path parameter, writing the error
// response itself when the ID is malformed.
func (h *ClientHandler) parseClientID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return uuid.Nil, false
	}
	return id, true
}
