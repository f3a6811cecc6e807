package services

import (
	"sync"
	"time"

	"github.com/alimgiray/agrocontrol/pkg/logger"
	"github.com/google/uuid"
)

// Workspace is the top-level controller for one browser. It owns the shell,
// the project list and the create surface; they never share state.
type Workspace struct {
	ID     string
	Shell  *Shell
	List   *ProjectListService
	Create *CreateSurface

	mu        sync.Mutex
	lastSeen  time.Time
	lastClose CloseReason
}

// WorkspaceSnapshot is everything a page needs to render
type WorkspaceSnapshot struct {
	ID        string         `json:"id"`
	Shell     ShellState     `json:"shell"`
	List      ListState      `json:"list"`
	Create    CreateSnapshot `json:"create"`
	LastClose CloseReason    `json:"last_close,omitempty"`
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

func (w *Workspace) recordClose(reason CloseReason) {
	w.mu.Lock()
	w.lastClose = reason
	w.mu.Unlock()
}

func (w *Workspace) Snapshot() WorkspaceSnapshot {
	w.mu.Lock()
	lastClose := w.lastClose
	w.mu.Unlock()

	return WorkspaceSnapshot{
		ID:        w.ID,
		Shell:     w.Shell.State(),
		List:      w.List.Snapshot(),
		Create:    w.Create.Snapshot(),
		LastClose: lastClose,
	}
}

// WorkspaceService keeps the in-memory workspaces. Nothing is persisted; a
// restart starts every browser from a fresh workspace.
type WorkspaceService struct {
	backend        ProjectBackend
	autoCloseDelay time.Duration
	now            func() time.Time

	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

func NewWorkspaceService(backend ProjectBackend, autoCloseDelay time.Duration) *WorkspaceService {
	return &WorkspaceService{
		backend:        backend,
		autoCloseDelay: autoCloseDelay,
		now:            time.Now,
		workspaces:     make(map[string]*Workspace),
	}
}

// GetOrCreate returns the workspace for id, creating it when missing. An
// id that is not a UUID is replaced by a new one.
func (s *WorkspaceService) GetOrCreate(id string) (*Workspace, bool) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	s.mu.RLock()
	ws, ok := s.workspaces[id]
	s.mu.RUnlock()
	if ok {
		ws.touch(s.now())
		return ws, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ws, ok := s.workspaces[id]; ok {
		ws.touch(s.now())
		return ws, false
	}

	ws = s.newWorkspace(id)
	s.workspaces[id] = ws
	logger.Component("workspace").WithField("workspace_id", id).Info("workspace created")
	return ws, true
}

func (s *WorkspaceService) newWorkspace(id string) *Workspace {
	ws := &Workspace{
		ID:       id,
		Shell:    NewShell(),
		List:     NewProjectListService(s.backend, id),
		lastSeen: s.now(),
	}
	ws.Create = NewCreateSurface(s.backend, s.autoCloseDelay, id, ws.recordClose)
	return ws
}

func (s *WorkspaceService) Get(id string) (*Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.workspaces[id]
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	return ws, nil
}

func (s *WorkspaceService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}

// SweepIdle drops workspaces not seen for ttl. Their create surfaces are
// closed first so no scheduled close outlives its workspace.
func (s *WorkspaceService) SweepIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	var stale []*Workspace
	for id, ws := range s.workspaces {
		if ws.idleSince().Before(cutoff) {
			stale = append(stale, ws)
			delete(s.workspaces, id)
		}
	}
	s.mu.Unlock()

	for _, ws := range stale {
		ws.Create.closeSwept()
	}
	if len(stale) > 0 {
		logger.Component("workspace").WithField("count", len(stale)).Info("idle workspaces swept")
	}
	return len(stale)
}
