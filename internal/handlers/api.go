package handlers

import (
	"errors"
	"net/http"

	"github.com/alimgiray/agrocontrol/internal/models"
	"github.com/alimgiray/agrocontrol/internal/services"
	"github.com/gin-gonic/gin"
)

// APIHandler exposes the workspace state machines as JSON
type APIHandler struct {
	pages *pageRenderer
}

func NewAPIHandler(pages *pageRenderer) *APIHandler {
	return &APIHandler{pages: pages}
}

type workspaceResponse struct {
	services.WorkspaceSnapshot
	Summary models.ProjectSummary `json:"summary"`
}

func (h *APIHandler) Workspace(c *gin.Context) {
	snap := h.pages.workspace(c).Snapshot()
	c.JSON(http.StatusOK, workspaceResponse{WorkspaceSnapshot: snap, Summary: snap.List.Summary()})
}

func (h *APIHandler) SelectSection(c *gin.Context) {
	ws := h.pages.workspace(c)
	section := ws.Shell.Select(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"active": section})
}

// LoadProjects runs the fetch lifecycle. Failures are a state, not an HTTP
// error, so the response is 200 either way.
func (h *APIHandler) LoadProjects(c *gin.Context) {
	state := h.pages.workspace(c).List.Load(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"list": state, "summary": state.Summary()})
}

func (h *APIHandler) RetryProjects(c *gin.Context) {
	state, err := h.pages.workspace(c).List.Retry(c.Request.Context())
	if errors.Is(err, services.ErrRetryNotAllowed) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "list": state})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": state, "summary": state.Summary()})
}

// CreateProject opens the surface if needed, stores the draft and submits it
func (h *APIHandler) CreateProject(c *gin.Context) {
	var draft models.ProjectDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	ws := h.pages.workspace(c)
	ws.Create.Open()
	if err := ws.Create.UpdateDraft(draft); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	state, err := ws.Create.Submit(c.Request.Context())

	var validation *models.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": validation.Message, "field": validation.Field, "state": state})
	case err != nil:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "state": state})
	case state.IsSucceeded():
		c.JSON(http.StatusCreated, gin.H{"state": state, "surface": ws.Create.Snapshot()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"state": state})
	}
}

func (h *APIHandler) CloseCreate(c *gin.Context) {
	closed := h.pages.workspace(c).Create.Close()
	c.JSON(http.StatusOK, gin.H{"closed": closed})
}
