package services

import (
	"context"
	"sync"
	"time"

	"github.com/alimgiray/agrocontrol/internal/models"
	"github.com/alimgiray/agrocontrol/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	MessageCreateSuccess    = "Proyecto creado exitosamente"
	MessageCreateGeneric    = "Error: No se pudo crear el proyecto"
	MessageCreateConnection = "Error de conexión con el servidor"

	DefaultAutoCloseDelay = 1500 * time.Millisecond
)

// CreateStateKind tags the create flow's state
type CreateStateKind string

const (
	CreateIdle       CreateStateKind = "idle"
	CreateSubmitting CreateStateKind = "submitting"
	CreateSucceeded  CreateStateKind = "succeeded"
	CreateFailed     CreateStateKind = "failed"
)

type CreateState struct {
	Kind    CreateStateKind `json:"kind"`
	Message string          `json:"message,omitempty"`
}

func (s CreateState) IsSubmitting() bool { return s.Kind == CreateSubmitting }
func (s CreateState) IsSucceeded() bool  { return s.Kind == CreateSucceeded }
func (s CreateState) IsFailed() bool     { return s.Kind == CreateFailed }

// CloseReason records why the create surface went away
type CloseReason string

const (
	CloseManual    CloseReason = "manual"
	CloseAutomatic CloseReason = "auto"
	CloseSwept     CloseReason = "swept"
)

// CreateSnapshot is a copy of the surface for rendering
type CreateSnapshot struct {
	Open        bool                `json:"open"`
	SurfaceID   string              `json:"surface_id,omitempty"`
	Draft       models.ProjectDraft `json:"draft"`
	State       CreateState         `json:"state"`
	AutoCloseAt *time.Time          `json:"auto_close_at,omitempty"`
}

// CreateSurface owns the create form: its draft, the submit state machine
// and the deferred close scheduled after a successful submit. Every open
// gets a fresh surface id; a scheduled close only applies to the id it was
// scheduled for.
type CreateSurface struct {
	backend ProjectBackend
	delay   time.Duration
	onClose func(reason CloseReason)
	log     *logrus.Entry

	mu          sync.Mutex
	open        bool
	surfaceID   string
	draft       models.ProjectDraft
	state       CreateState
	timer       *time.Timer
	autoCloseAt time.Time
	// closeSeq identifies the current automatic close; any stop bumps it so
	// a callback that already fired finds a stale value.
	closeSeq uint64
}

// NewCreateSurface returns a closed surface. onClose, when set, runs once
// per close outside the surface lock.
func NewCreateSurface(backend ProjectBackend, delay time.Duration, workspaceID string, onClose func(CloseReason)) *CreateSurface {
	if delay <= 0 {
		delay = DefaultAutoCloseDelay
	}
	return &CreateSurface{
		backend: backend,
		delay:   delay,
		onClose: onClose,
		log:     logger.Component("create_flow").WithField("workspace_id", workspaceID),
		draft:   models.NewProjectDraft(),
		state:   CreateState{Kind: CreateIdle},
	}
}

// Open starts a new surface session. Opening an open surface keeps it as is.
func (s *CreateSurface) Open() CreateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		s.open = true
		s.surfaceID = uuid.NewString()
		s.draft = models.NewProjectDraft()
		s.state = CreateState{Kind: CreateIdle}
		s.log.WithField("surface_id", s.surfaceID).Debug("create surface opened")
	}
	return s.snapshotLocked()
}

// Close closes the surface and cancels a pending automatic close. It
// reports whether the surface was open.
func (s *CreateSurface) Close() bool {
	s.mu.Lock()
	return s.closeLocked(CloseManual)
}

// closeSwept is used by the workspace sweeper
func (s *CreateSurface) closeSwept() bool {
	s.mu.Lock()
	return s.closeLocked(CloseSwept)
}

// autoClose runs from the timer. It only closes the surface session it was
// scheduled for, and only if the schedule has not been stopped since.
func (s *CreateSurface) autoClose(id string, seq uint64) bool {
	s.mu.Lock()
	if s.surfaceID != id || s.closeSeq != seq {
		s.mu.Unlock()
		s.log.WithFields(logrus.Fields{"surface_id": id, "seq": seq}).Debug("stale automatic close ignored")
		return false
	}
	return s.closeLocked(CloseAutomatic)
}

// closeLocked expects s.mu held and releases it
func (s *CreateSurface) closeLocked(reason CloseReason) bool {
	if !s.open {
		s.mu.Unlock()
		return false
	}

	id := s.surfaceID
	s.open = false
	s.stopTimerLocked()
	s.surfaceID = ""
	s.draft = models.NewProjectDraft()
	s.state = CreateState{Kind: CreateIdle}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"surface_id": id, "reason": reason}).Debug("create surface closed")
	if s.onClose != nil {
		s.onClose(reason)
	}
	return true
}

// UpdateDraft replaces the working buffer with the submitted form values.
// The draft of an in-flight submit is kept until that submit resolves.
func (s *CreateSurface) UpdateDraft(draft models.ProjectDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return ErrSurfaceClosed
	}
	if s.state.Kind == CreateSubmitting {
		return ErrSubmitInProgress
	}
	if draft.Status == "" {
		draft.Status = models.ProjectStatusActive
	}
	s.draft = draft
	return nil
}

// Submit validates the draft and posts it. Required-field violations return
// a *models.ValidationError without touching the state or the network; a
// second submit while one is in flight returns ErrSubmitInProgress.
func (s *CreateSurface) Submit(ctx context.Context) (CreateState, error) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return CreateState{Kind: CreateIdle}, ErrSurfaceClosed
	}
	if s.state.Kind == CreateSubmitting {
		current := s.state
		s.mu.Unlock()
		return current, ErrSubmitInProgress
	}
	if err := s.draft.Validate(); err != nil {
		current := s.state
		s.mu.Unlock()
		return current, err
	}

	s.stopTimerLocked()
	s.state = CreateState{Kind: CreateSubmitting}
	draft := s.draft
	id := s.surfaceID
	s.mu.Unlock()

	entry := s.log.WithFields(logrus.Fields{"surface_id": id, "project": draft.Name})
	err := s.backend.CreateProject(ctx, draft)

	var result CreateState
	if err != nil {
		result = CreateState{Kind: CreateFailed, Message: createFailureMessage(err)}
		entry.WithError(err).Warn("create project failed")
	} else {
		result = CreateState{Kind: CreateSucceeded, Message: MessageCreateSuccess}
		entry.Info("project created")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.surfaceID != id {
		entry.Debug("surface closed while the request was in flight")
		return result, nil
	}

	s.state = result
	if err == nil {
		s.draft = models.NewProjectDraft()
		s.closeSeq++
		seq := s.closeSeq
		s.autoCloseAt = time.Now().Add(s.delay)
		s.timer = time.AfterFunc(s.delay, func() {
			s.autoClose(id, seq)
		})
	}
	return result, nil
}

func (s *CreateSurface) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.closeSeq++
	s.autoCloseAt = time.Time{}
}

// IsOpen reports whether the surface is currently shown
func (s *CreateSurface) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *CreateSurface) Snapshot() CreateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CreateSurface) snapshotLocked() CreateSnapshot {
	snap := CreateSnapshot{
		Open:      s.open,
		SurfaceID: s.surfaceID,
		Draft:     s.draft,
		State:     s.state,
	}
	if !s.autoCloseAt.IsZero() {
		at := s.autoCloseAt
		snap.AutoCloseAt = &at
	}
	return snap
}
