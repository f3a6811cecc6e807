package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/alimgiray/agrocontrol/internal/middleware"
	"github.com/alimgiray/agrocontrol/internal/models"
	"github.com/alimgiray/agrocontrol/internal/services"
	"github.com/alimgiray/agrocontrol/pkg/logger"
	"github.com/gin-gonic/gin"
)

// sectionView renders the body of one section. It returns the template to
// execute and its data.
type sectionView func(c *gin.Context, ws *services.Workspace) (string, gin.H)

// pageRenderer wraps a section body in the shell layout. Sections are
// dispatched through a table keyed by models.Section; sections without an
// entry fall back to home.
type pageRenderer struct {
	tmpl       *template.Template
	workspaces *services.WorkspaceService
	sections   map[models.Section]sectionView
}

func newPageRenderer(tmpl *template.Template, workspaces *services.WorkspaceService) *pageRenderer {
	return &pageRenderer{
		tmpl:       tmpl,
		workspaces: workspaces,
		sections:   make(map[models.Section]sectionView),
	}
}

func (r *pageRenderer) register(section models.Section, view sectionView) {
	r.sections[section] = view
}

// workspace returns the controller bound to the request's session cookie
func (r *pageRenderer) workspace(c *gin.Context) *services.Workspace {
	ws, _ := r.workspaces.GetOrCreate(middleware.WorkspaceID(c))
	return ws
}

// render draws the full page for the workspace's active section
func (r *pageRenderer) render(c *gin.Context, ws *services.Workspace, status int) {
	shell := ws.Shell.State()

	section := shell.Active
	view, ok := r.sections[section]
	if !ok {
		section = models.SectionHome
		view = r.sections[section]
	}

	name, data := view(c, ws)

	var body bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&body, name, data); err != nil {
		logger.Component("render").WithError(err).WithField("template", name).Error("section render failed")
		c.String(http.StatusInternalServerError, "render error")
		return
	}

	page := gin.H{
		"Title":   section.Label(),
		"Shell":   shell,
		"Menu":    models.Sections(),
		"Content": template.HTML(body.String()),
	}
	if create := ws.Create.Snapshot(); create.Open && create.AutoCloseAt != nil {
		page["RefreshAfter"] = refreshSeconds(time.Until(*create.AutoCloseAt))
	}

	c.HTML(status, "layout", page)
}

// refreshSeconds rounds up so the browser reloads after the close fired
func refreshSeconds(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}
