package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ProjectStatus is the lifecycle value the backend reports for a crop project
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "activo"
	ProjectStatusFinished ProjectStatus = "finalizado"
)

// ProjectStatuses lists the values accepted when creating a project
func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{ProjectStatusActive, ProjectStatusFinished}
}

func (s ProjectStatus) String() string {
	return string(s)
}

func (s ProjectStatus) IsValid() bool {
	return s == ProjectStatusActive || s == ProjectStatusFinished
}

// Label returns the display text. Unknown values are shown verbatim.
func (s ProjectStatus) Label() string {
	switch s {
	case ProjectStatusActive:
		return "Activo"
	case ProjectStatusFinished:
		return "Finalizado"
	default:
		return string(s)
	}
}

// ProjectID is the backend identifier. It is opaque to the client; numeric
// ids are accepted and kept in their textual form.
type ProjectID string

func (id *ProjectID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProjectID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("project id must be a string or number: %w", err)
	}
	*id = ProjectID(n.String())
	return nil
}

// Project is a crop project exactly as the backend returned it. The client
// never edits a Project after decoding it.
type Project struct {
	ID           ProjectID     `json:"id"`
	Name         string        `json:"name"`
	Location     string        `json:"location"`
	Status       ProjectStatus `json:"status"`
	PlantingDate string        `json:"planting_date,omitempty"`
	HarvestDate  string        `json:"harvest_date,omitempty"`
	Area         string        `json:"area"`
}

// ProjectSummary holds the dashboard counters
type ProjectSummary struct {
	Active   int `json:"active"`
	Finished int `json:"finished"`
	Total    int `json:"total"`
}

// CountByStatus scans the list once. Statuses outside the enumeration only
// count towards Total.
func CountByStatus(projects []Project) ProjectSummary {
	summary := ProjectSummary{Total: len(projects)}
	for _, p := range projects {
		switch p.Status {
		case ProjectStatusActive:
			summary.Active++
		case ProjectStatusFinished:
			summary.Finished++
		}
	}
	return summary
}

// ProjectDraft is the create form's working buffer
type ProjectDraft struct {
	Name         string        `json:"name" form:"name"`
	Location     string        `json:"location" form:"location"`
	Status       ProjectStatus `json:"status" form:"status"`
	PlantingDate string        `json:"planting_date" form:"planting_date"`
	HarvestDate  string        `json:"harvest_date" form:"harvest_date"`
	Area         string        `json:"area" form:"area"`
}

// NewProjectDraft returns the empty form defaults
func NewProjectDraft() ProjectDraft {
	return ProjectDraft{Status: ProjectStatusActive}
}

// Validate enforces the required fields of the create form. Dates are
// passed through untouched.
func (d ProjectDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrProjectNameRequired
	}
	if strings.TrimSpace(d.Location) == "" {
		return ErrProjectLocationRequired
	}
	if strings.TrimSpace(d.Area) == "" {
		return ErrProjectAreaRequired
	}
	if !d.Status.IsValid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("Estado no válido: %q", d.Status)}
	}
	return nil
}

// Common errors
var (
	ErrProjectNameRequired     = &ValidationError{Field: "name", Message: "El nombre es obligatorio"}
	ErrProjectLocationRequired = &ValidationError{Field: "location", Message: "La ubicación es obligatoria"}
	ErrProjectAreaRequired     = &ValidationError{Field: "area", Message: "El área es obligatoria"}
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
