package services

import (
	"context"
	"sync"

	"github.com/alimgiray/agrocontrol/internal/models"
)

// fakeBackend records calls and answers through the configured funcs
type fakeBackend struct {
	mu          sync.Mutex
	listCalls   int
	createCalls int
	drafts      []models.ProjectDraft

	list   func(ctx context.Context) ([]models.Project, error)
	create func(ctx context.Context, draft models.ProjectDraft) error
}

func (f *fakeBackend) ListProjects(ctx context.Context) ([]models.Project, error) {
	f.mu.Lock()
	f.listCalls++
	fn := f.list
	f.mu.Unlock()
	if fn == nil {
		return []models.Project{}, nil
	}
	return fn(ctx)
}

func (f *fakeBackend) CreateProject(ctx context.Context, draft models.ProjectDraft) error {
	f.mu.Lock()
	f.createCalls++
	f.drafts = append(f.drafts, draft)
	fn := f.create
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, draft)
}

func (f *fakeBackend) counts() (list, create int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createCalls
}
