package ui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dataviz/app"
	"dataviz/internal"
	"dataviz/internal/config"
	apperrors "dataviz/internal/errors"
	"dataviz/ports"
	"dataviz/ui/middleware"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// Server is the HTTP front end over the session store and the pipeline
type Server struct {
	router    *gin.Engine
	cfg       config.Config
	store     ports.SessionStore
	loader    ports.TableLoader
	pipeline  *app.PipelineService
	templates *template.Template
	logger    *internal.Logger
	started   time.Time
}

// NewServer wires the routes. The gin mode comes from cfg.Server.GinMode.
func NewServer(cfg config.Config, store ports.SessionStore, loader ports.TableLoader, pipeline *app.PipelineService, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	templates, err := template.New("").ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		cfg:       cfg,
		store:     store,
		loader:    loader,
		pipeline:  pipeline,
		templates: templates,
		logger:    logger,
		started:   time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestLogger(s.logger))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/api/archetypes", s.handleArchetypes)

	api := s.router.Group("/api/datasets")
	api.GET("", s.handleListDatasets)
	api.POST("", middleware.LimitBody(s.cfg.Server.MaxUploadBytes()+1<<20), s.handleUpload)
	api.GET("/:id/columns", s.handleColumns)
	api.POST("/:id/chart", s.handleChart)
	api.GET("/:id/summary", s.handleSummary)
	api.DELETE("/:id", s.handleDelete)
}

// Handler exposes the router for tests and custom listeners
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[Server] listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("[Server] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// respondError maps err to a status through its error code. Incomplete and
// domain outcomes are not failures and keep a 200 with their readiness.
func (s *Server) respondError(c *gin.Context, err error) {
	code := apperrors.Classify(err)
	status := apperrors.HTTPStatus(code)
	body := gin.H{
		"error": err.Error(),
		"code":  code,
	}
	switch code {
	case apperrors.CodeConfigIncomplete:
		body["readiness"] = app.ReadinessIncomplete
	case apperrors.CodeDomainError:
		body["readiness"] = app.ReadinessInvalid
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, body)
}
