package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alimgiray/agrocontrol/internal/middleware"
	"github.com/alimgiray/agrocontrol/internal/models"
	"github.com/alimgiray/agrocontrol/internal/services"
	"github.com/alimgiray/agrocontrol/web"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig carries what the router needs besides the services
type RouterConfig struct {
	SessionSecret string
	CORSOrigins   []string
}

// NewRouter wires handlers, middleware, templates and static files
func NewRouter(cfg RouterConfig, workspaces *services.WorkspaceService, reports *services.ReportService) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("load static files: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", http.FS(static))

	pages := newPageRenderer(tmpl, workspaces)
	shellHandler := NewShellHandler(pages)
	dashboardHandler := NewDashboardHandler(pages)
	projectHandler := NewProjectHandler(pages)
	reportHandler := NewReportHandler(pages, reports)
	apiHandler := NewAPIHandler(pages)
	healthHandler := NewHealthHandler(workspaces)
	notFoundHandler := NewNotFoundHandler()

	for _, item := range models.Sections() {
		if _, ok := pages.sections[item.Section]; !ok {
			return nil, fmt.Errorf("section %q has no view", item.Section)
		}
	}

	router.GET("/health", healthHandler.HealthCheck)

	app := router.Group("/")
	app.Use(middleware.SessionMiddleware(cfg.SessionSecret))
	{
		app.GET("/", shellHandler.Index)
		app.GET("/sections/:id", shellHandler.SelectSection)
		app.POST("/sidebar/toggle", shellHandler.ToggleSidebar)

		app.POST("/projects/retry", dashboardHandler.Retry)
		app.POST("/projects/new", projectHandler.CreateProjectForm)
		app.POST("/projects/new/close", projectHandler.CloseProjectForm)
		app.POST("/projects/new/submit", projectHandler.CreateProject)

		app.GET("/reports/projects.xlsx", reportHandler.ExportProjects)
	}

	api := router.Group("/api")
	if len(cfg.CORSOrigins) > 0 {
		api.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	api.Use(middleware.SessionMiddleware(cfg.SessionSecret))
	{
		api.GET("/workspace", apiHandler.Workspace)
		api.POST("/sections/:id", apiHandler.SelectSection)
		api.POST("/projects/load", apiHandler.LoadProjects)
		api.POST("/projects/retry", apiHandler.RetryProjects)
		api.POST("/projects", apiHandler.CreateProject)
		api.POST("/projects/close", apiHandler.CloseCreate)
	}

	router.NoRoute(notFoundHandler.NotFound)

	return router, nil
}
