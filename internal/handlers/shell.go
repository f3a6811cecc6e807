package handlers

import (
	"net/http"

	"github.com/alimgiray/agrocontrol/internal/models"
	"github.com/alimgiray/agrocontrol/internal/services"
	"github.com/gin-gonic/gin"
)

type ShellHandler struct {
	pages *pageRenderer
}

func NewShellHandler(pages *pageRenderer) *ShellHandler {
	h := &ShellHandler{pages: pages}
	for _, section := range []models.Section{models.SectionExpenses, models.SectionInventory, models.SectionSettings} {
		pages.register(section, h.placeholderSection)
	}
	return h
}

// Index renders the active section
func (h *ShellHandler) Index(c *gin.Context) {
	ws := h.pages.workspace(c)
	h.pages.render(c, ws, http.StatusOK)
}

// SelectSection switches the active section. Unknown ids land on home.
func (h *ShellHandler) SelectSection(c *gin.Context) {
	ws := h.pages.workspace(c)
	ws.Shell.Select(c.Param("id"))
	c.Redirect(http.StatusSeeOther, "/")
}

// ToggleSidebar expands or collapses the mobile menu
func (h *ShellHandler) ToggleSidebar(c *gin.Context) {
	ws := h.pages.workspace(c)
	ws.Shell.ToggleSidebar()
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *ShellHandler) placeholderSection(c *gin.Context, ws *services.Workspace) (string, gin.H) {
	section := ws.Shell.State().Active
	return "section_placeholder", gin.H{"Label": section.Label()}
}
