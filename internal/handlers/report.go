package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/alimgiray/agrocontrol/internal/models"
	"github.com/alimgiray/agrocontrol/internal/services"
	"github.com/alimgiray/agrocontrol/pkg/logger"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	pages   *pageRenderer
	reports *services.ReportService
}

func NewReportHandler(pages *pageRenderer, reports *services.ReportService) *ReportHandler {
	h := &ReportHandler{pages: pages, reports: reports}
	pages.register(models.SectionReports, h.reportsSection)
	return h
}

func (h *ReportHandler) reportsSection(c *gin.Context, ws *services.Workspace) (string, gin.H) {
	state := ws.List.Snapshot()
	return "section_reports", gin.H{
		"List":    state,
		"Summary": state.Summary(),
	}
}

// ExportProjects downloads the loaded project list as a workbook. The list
// is fetched first when the workspace has not loaded it yet.
func (h *ReportHandler) ExportProjects(c *gin.Context) {
	ws := h.pages.workspace(c)

	state := ws.List.Snapshot()
	if !state.IsLoaded() {
		state = ws.List.Load(c.Request.Context())
	}
	if !state.IsLoaded() {
		ws.Shell.Select(string(models.SectionReports))
		h.pages.render(c, ws, http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	if err := h.reports.ExportProjects(state.Projects, &buf); err != nil {
		logger.Component("reports").WithError(err).Error("project export failed")
		c.String(http.StatusInternalServerError, "No se pudo generar el reporte")
		return
	}

	filename := fmt.Sprintf("proyectos-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
