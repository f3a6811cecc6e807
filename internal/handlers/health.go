package handlers

import (
	"net/http"
	"time"

	"github.com/alimgiray/agrocontrol/internal/services"
	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Service    string    `json:"service"`
	Workspaces int       `json:"workspaces"`
}

type HealthHandler struct {
	workspaces *services.WorkspaceService
}

func NewHealthHandler(workspaces *services.WorkspaceService) *HealthHandler {
	return &HealthHandler{workspaces: workspaces}
}

// HealthCheck reports liveness. The backend is not probed: it is an
// external collaborator and its outages surface in the flows instead.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC(),
		Service:    "agrocontrol-web",
		Workspaces: h.workspaces.Count(),
	})
}
