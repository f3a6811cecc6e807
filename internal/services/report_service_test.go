package services

import (
	"bytes"
	"testing"

	"github.com/alimgiray/agrocontrol/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportProjects(t *testing.T) {
	projects := []models.Project{
		{ID: "1", Name: "Yuca Cayetano", Location: "Lote A", Status: models.ProjectStatusActive, PlantingDate: "2025-03-15", Area: "2.5 ha"},
		{ID: "2", Name: "Yuca Balastre", Location: "Lote B", Status: models.ProjectStatusFinished, HarvestDate: "2025-11-22", Area: "1.8 ha"},
		{ID: "3", Name: "Maíz", Location: "Lote C", Status: "cosecha", Area: "4 ha"},
	}

	var buf bytes.Buffer
	require.NoError(t, NewReportService().ExportProjects(projects, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(projectsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, projectColumns, rows[0])
	assert.Equal(t, "Yuca Cayetano", rows[1][1])
	assert.Equal(t, "Activo", rows[1][3])
	assert.Equal(t, "Yuca Balastre", rows[2][1])
	assert.Equal(t, "cosecha", rows[3][3], "unknown statuses are exported verbatim")

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"Proyectos activos", "1"}, summary[0])
	assert.Equal(t, []string{"Proyectos finalizados", "1"}, summary[1])
	assert.Equal(t, []string{"Total", "3"}, summary[2])
}

func TestExportEmptyList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReportService().ExportProjects(nil, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(projectsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
