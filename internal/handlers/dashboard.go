package handlers

import (
	"errors"
	"net/http"

	"github.com/alimgiray/agrocontrol/internal/models"
	"github.com/alimgiray/agrocontrol/internal/services"
	"github.com/gin-gonic/gin"
)

// skipLoadKey marks a render that already ran the fetch lifecycle
const skipLoadKey = "skip_load"

type DashboardHandler struct {
	pages *pageRenderer
}

func NewDashboardHandler(pages *pageRenderer) *DashboardHandler {
	h := &DashboardHandler{pages: pages}
	pages.register(models.SectionHome, h.homeSection)
	return h
}

// homeSection mounts the project list: every page view of home reloads it
func (h *DashboardHandler) homeSection(c *gin.Context, ws *services.Workspace) (string, gin.H) {
	state := ws.List.Snapshot()
	if !c.GetBool(skipLoadKey) {
		state = ws.List.Load(c.Request.Context())
	}

	return "section_home", gin.H{
		"List":    state,
		"Summary": state.Summary(),
	}
}

// Retry re-runs the load after a failure and renders the outcome directly
func (h *DashboardHandler) Retry(c *gin.Context) {
	ws := h.pages.workspace(c)

	if _, err := ws.List.Retry(c.Request.Context()); errors.Is(err, services.ErrRetryNotAllowed) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	ws.Shell.Select(string(models.SectionHome))
	c.Set(skipLoadKey, true)
	h.pages.render(c, ws, http.StatusOK)
}
