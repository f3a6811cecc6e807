package services

import (
	"fmt"
	"io"

	"github.com/alimgiray/agrocontrol/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	projectsSheet = "Proyectos"
	summarySheet  = "Resumen"
)

var projectColumns = []string{"ID", "Nombre", "Ubicación", "Estado", "Fecha de siembra", "Fecha de cosecha", "Área"}

type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// ExportProjects writes the list as an xlsx workbook, one row per project in
// the order given, plus a sheet with the dashboard counters.
func (s *ReportService) ExportProjects(projects []models.Project, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", projectsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, title := range projectColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(projectsSheet, cell, title); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(projectColumns), 1)
	if err := f.SetCellStyle(projectsSheet, "A1", lastHeader, header); err != nil {
		return err
	}

	for row, p := range projects {
		values := []string{
			string(p.ID), p.Name, p.Location, p.Status.Label(), p.PlantingDate, p.HarvestDate, p.Area,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(projectsSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summary := models.CountByStatus(projects)
	rows := [][]interface{}{
		{"Proyectos activos", summary.Active},
		{"Proyectos finalizados", summary.Finished},
		{"Total", summary.Total},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
