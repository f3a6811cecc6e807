package handlers

import (
	"errors"
	"net/http"

	"github.com/alimgiray/agrocontrol/internal/models"
	"github.com/alimgiray/agrocontrol/internal/services"
	"github.com/gin-gonic/gin"
)

const formErrorKey = "form_error"

type ProjectHandler struct {
	pages *pageRenderer
}

func NewProjectHandler(pages *pageRenderer) *ProjectHandler {
	h := &ProjectHandler{pages: pages}
	pages.register(models.SectionManageProjects, h.manageSection)
	return h
}

func (h *ProjectHandler) manageSection(c *gin.Context, ws *services.Workspace) (string, gin.H) {
	return "section_manage_projects", gin.H{
		"Surface":   ws.Create.Snapshot(),
		"FormError": c.GetString(formErrorKey),
	}
}

// CreateProjectForm opens the create surface on the manage-projects section
func (h *ProjectHandler) CreateProjectForm(c *gin.Context) {
	ws := h.pages.workspace(c)
	ws.Shell.Select(string(models.SectionManageProjects))
	ws.Create.Open()
	c.Redirect(http.StatusSeeOther, "/")
}

// CloseProjectForm closes the surface and cancels a pending automatic close
func (h *ProjectHandler) CloseProjectForm(c *gin.Context) {
	ws := h.pages.workspace(c)
	ws.Create.Close()
	c.Redirect(http.StatusSeeOther, "/")
}

// CreateProject binds the form into the draft and submits it
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	ws := h.pages.workspace(c)

	// A form posted from a surface that has since closed is stale.
	if c.PostForm("surface_id") != ws.Create.Snapshot().SurfaceID {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	var draft models.ProjectDraft
	if err := c.ShouldBind(&draft); err != nil {
		c.Set(formErrorKey, "Formulario inválido")
		h.pages.render(c, ws, http.StatusBadRequest)
		return
	}
	if err := ws.Create.UpdateDraft(draft); err != nil {
		if errors.Is(err, services.ErrSubmitInProgress) {
			h.pages.render(c, ws, http.StatusConflict)
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	_, err := ws.Create.Submit(c.Request.Context())

	var validation *models.ValidationError
	switch {
	case err == nil:
		h.pages.render(c, ws, http.StatusOK)
	case errors.As(err, &validation):
		c.Set(formErrorKey, validation.Message)
		h.pages.render(c, ws, http.StatusUnprocessableEntity)
	case errors.Is(err, services.ErrSubmitInProgress):
		h.pages.render(c, ws, http.StatusConflict)
	default:
		c.Redirect(http.StatusSeeOther, "/")
	}
}
