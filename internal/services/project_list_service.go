package services

import (
	"context"
	"sync"
	"time"

	"github.com/alimgiray/agrocontrol/internal/models"
	"github.com/alimgiray/agrocontrol/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ListStateKind tags the dashboard's view state
type ListStateKind string

const (
	ListLoading ListStateKind = "loading"
	ListLoaded  ListStateKind = "loaded"
	ListFailed  ListStateKind = "failed"
)

// ListState is a snapshot of the project list view. Projects is only set
// when Kind is ListLoaded, Message only when Kind is ListFailed.
type ListState struct {
	Kind       ListStateKind    `json:"kind"`
	Projects   []models.Project `json:"projects,omitempty"`
	Message    string           `json:"message,omitempty"`
	Generation uint64           `json:"generation"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (s ListState) IsLoading() bool { return s.Kind == ListLoading }
func (s ListState) IsLoaded() bool  { return s.Kind == ListLoaded }
func (s ListState) IsFailed() bool  { return s.Kind == ListFailed }

// Summary is recomputed from the current list on every call
func (s ListState) Summary() models.ProjectSummary {
	if s.Kind != ListLoaded {
		return models.ProjectSummary{}
	}
	return models.CountByStatus(s.Projects)
}

// ProjectListService drives the dashboard's fetch lifecycle:
// loading -> loaded | failed, with retry allowed from failed only.
type ProjectListService struct {
	backend ProjectBackend
	log     *logrus.Entry

	mu     sync.Mutex
	state  ListState
	issued uint64
}

func NewProjectListService(backend ProjectBackend, workspaceID string) *ProjectListService {
	return &ProjectListService{
		backend: backend,
		log:     logger.Component("project_list").WithField("workspace_id", workspaceID),
		state:   ListState{Kind: ListLoading, UpdatedAt: time.Now()},
	}
}

// Load moves to loading, fetches the list and applies the outcome. When
// loads overlap, whichever response resolves last decides the final state;
// issue order is not enforced.
func (s *ProjectListService) Load(ctx context.Context) ListState {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.state = ListState{Kind: ListLoading, Generation: gen, UpdatedAt: time.Now()}
	s.mu.Unlock()

	projects, err := s.backend.ListProjects(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.log.WithField("generation", gen)
	if gen < s.issued {
		entry.WithField("latest", s.issued).Debug("older load resolved after a newer one was issued")
	}

	if err != nil {
		s.state = ListState{
			Kind:       ListFailed,
			Message:    loadFailureMessage(err),
			Generation: gen,
			UpdatedAt:  time.Now(),
		}
		entry.WithError(err).Warn("project list load failed")
		return s.snapshotLocked()
	}

	s.state = ListState{
		Kind:       ListLoaded,
		Projects:   projects,
		Generation: gen,
		UpdatedAt:  time.Now(),
	}
	entry.WithField("count", len(projects)).Info("project list loaded")
	return s.snapshotLocked()
}

// Retry re-issues the load. It is only valid from the failed state.
func (s *ProjectListService) Retry(ctx context.Context) (ListState, error) {
	s.mu.Lock()
	if s.state.Kind != ListFailed {
		current := s.snapshotLocked()
		s.mu.Unlock()
		return current, ErrRetryNotAllowed
	}
	s.mu.Unlock()

	return s.Load(ctx), nil
}

// Snapshot returns a copy of the current state
func (s *ProjectListService) Snapshot() ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *ProjectListService) snapshotLocked() ListState {
	out := s.state
	if s.state.Projects != nil {
		out.Projects = make([]models.Project, len(s.state.Projects))
		copy(out.Projects, s.state.Projects)
	}
	return out
}
