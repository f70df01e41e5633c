// Package server exposes the HTTP API: key validation, document
// generation, progress analysis, design extraction, and project CRUD.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vibedocs/internal/design"
	"vibedocs/internal/gemini"
	"vibedocs/internal/generator"
	"vibedocs/internal/matcher"
	"vibedocs/internal/project"
)

// Validator checks API keys. Satisfied by *gemini.Validator.
type Validator interface {
	Validate(ctx context.Context, apiKey string) (gemini.ValidationResult, error)
}

// Generator runs document batches. Satisfied by *generator.Orchestrator.
type Generator interface {
	GenerateCore(ctx context.Context, req generator.CoreRequest) (generator.CoreResult, error)
	GenerateExtension(ctx context.Context, req generator.ExtensionRequest) (generator.ExtensionResult, error)
}

// Analyzer runs LLM progress matching. Satisfied by *matcher.Analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, req matcher.AnalyzeRequest) ([]matcher.Match, error)
}

// Extractor samples design tokens. Satisfied by *design.Extractor.
type Extractor interface {
	Extract(ctx context.Context, url string, opts design.Options) (*project.DesignSystem, error)
}

// Server wires the components behind the HTTP API.
type Server struct {
	store     *project.Store
	validator Validator
	gen       Generator
	analyzer  Analyzer
	extractor Extractor

	// fallbackKey is used when a request carries no key of its own.
	fallbackKey string
	log         *zap.Logger
}

// New creates a Server.
func New(store *project.Store, v Validator, g Generator, a Analyzer, e Extractor, fallbackKey string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		store:       store,
		validator:   v,
		gen:         g,
		analyzer:    a,
		extractor:   e,
		fallbackKey: fallbackKey,
		log:         log.Named("http"),
	}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	api := r.Group("/api")
	{
		api.POST("/validate-key", s.handleValidateKey)
		api.POST("/generate-documents", s.handleGenerateDocuments)
		api.POST("/analyze-progress", s.handleAnalyzeProgress)
		api.POST("/extract-design", s.handleExtractDesign)

		api.GET("/projects", s.handleListProjects)
		api.GET("/active-project", s.handleActiveProject)
		api.GET("/projects/:id", s.handleGetProject)
		api.DELETE("/projects/:id", s.handleDeleteProject)
		api.POST("/projects/:id/select", s.handleSelectProject)
		api.PUT("/projects/:id/documents/:kind", s.handleUpdateDocument)
		api.PATCH("/projects/:id/todos/:todoId", s.handleUpdateTodoStatus)
		api.POST("/projects/:id/todos/batch", s.handleBatchTodoStatus)
		api.POST("/projects/:id/extensions", s.handleGenerateExtension)

		api.GET("/settings", s.handleGetSettings)
		api.PUT("/settings", s.handlePutSettings)
		api.GET("/workflow", s.handleGetWorkflow)
		api.PUT("/workflow", s.handlePutWorkflow)
	}
	return r
}

// Run serves the API until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

// apiKeyFor resolves the key for a request: the request's own key wins,
// then the configured fallback.
func (s *Server) apiKeyFor(requestKey string) string {
	if requestKey != "" {
		return requestKey
	}
	return s.fallbackKey
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var ae *gemini.APIError
	if errors.As(err, &ae) {
		c.JSON(statusForKind(ae.Kind), gin.H{"error": ae.Message, "kind": string(ae.Kind)})
		return
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, project.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, gemini.ErrEmptyKey), errors.Is(err, gemini.ErrBadKeyFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func statusForKind(k gemini.Kind) int {
	switch k {
	case gemini.KindInvalidInput:
		return http.StatusBadRequest
	case gemini.KindAuth:
		return http.StatusUnauthorized
	case gemini.KindPermission:
		return http.StatusForbidden
	case gemini.KindRateLimit:
		return http.StatusTooManyRequests
	case gemini.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
