// Package devserver is an in-memory reference implementation of the
// OpenFiles backend wire API, for local development and end-to-end tests.
// It is not the production backend: data lives in process memory only.
package devserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Config defines the dev server settings.
type Config struct {
	Addr   string
	APIKey string
}

// Server hosts the Gin engine over an in-memory file store.
type Server struct {
	engine *gin.Engine
	config Config
	store  *Store
	log    *slog.Logger
}

// NewServer constructs the dev backend server.
func NewServer(cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))

	srv := &Server{
		engine: engine,
		config: cfg,
		store:  NewStore(),
		log:    log,
	}
	srv.setupRoutes()
	return srv
}

// Engine returns the underlying Gin engine (for http.Server or httptest).
func (s *Server) Engine() *gin.Engine { return s.engine }

// Addr returns the configured address.
func (s *Server) Addr() string { return s.config.Addr }

// Run starts the HTTP server on the configured address.
func (s *Server) Run() error {
	s.log.Info("dev backend listening", "addr", s.config.Addr)
	return http.ListenAndServe(s.config.Addr, s.engine)
}

// setupRoutes configures the file API routes.
func (s *Server) setupRoutes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	files := s.engine.Group("/")
	files.Use(auth(s.config.APIKey))

	files.POST("/files", s.handleWrite)
	files.GET("/files", s.handleList)
	files.GET("/files/*path", s.handleGet)
	files.PUT("/files/edit/*path", s.handleEdit)
	files.PUT("/files/append/*path", s.handleAppend)
	files.PUT("/files/overwrite/*path", s.handleOverwrite)
}
