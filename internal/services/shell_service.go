package services

import (
	"sync"

	"github.com/alimgiray/agrocontrol/internal/models"
)

// Shell holds the navigation state: which section is shown and whether the
// mobile sidebar is expanded.
type Shell struct {
	mu          sync.Mutex
	active      models.Section
	sidebarOpen bool
}

// ShellState is a copy of the shell for rendering
type ShellState struct {
	Active      models.Section `json:"active"`
	SidebarOpen bool           `json:"sidebar_open"`
}

func NewShell() *Shell {
	return &Shell{active: models.SectionHome}
}

// Select switches the active section. Unknown ids select home. The sidebar
// collapses after a selection.
func (s *Shell) Select(id string) models.Section {
	section := models.ParseSection(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = section
	s.sidebarOpen = false
	return section
}

func (s *Shell) ToggleSidebar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarOpen = !s.sidebarOpen
	return s.sidebarOpen
}

func (s *Shell) State() ShellState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ShellState{Active: s.active, SidebarOpen: s.sidebarOpen}
}
