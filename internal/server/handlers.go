package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vibedocs/internal/design"
	"vibedocs/internal/gemini"
	"vibedocs/internal/generator"
	"vibedocs/internal/matcher"
	"vibedocs/internal/project"
	"vibedocs/internal/todo"
)

type validateKeyRequest struct {
	APIKey string `json:"apiKey"`
}

func (s *Server) handleValidateKey(c *gin.Context) {
	var req validateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := s.validator.Validate(c.Request.Context(), req.APIKey)
	if err != nil && !res.Valid {
		// The result itself carries the user-facing outcome; format
		// errors are 400, provider rejections keep their status.
		if errors.Is(err, gemini.ErrEmptyKey) || errors.Is(err, gemini.ErrBadKeyFormat) {
			c.JSON(http.StatusBadRequest, res)
			return
		}
	}
	c.JSON(http.StatusOK, res)
}

type generateDocumentsRequest struct {
	APIKey      string `json:"apiKey"`
	Model       string `json:"model"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AppType     string `json:"appType"`
	Template    string `json:"template"`
}

func (s *Server) handleGenerateDocuments(c *gin.Context) {
	var req generateDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	// Reject before any provider call.
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and description are required"})
		return
	}
	key := s.apiKeyFor(req.APIKey)
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no API key configured"})
		return
	}

	res, err := s.gen.GenerateCore(c.Request.Context(), generator.CoreRequest{
		APIKey:      key,
		Model:       req.Model,
		Name:        req.Name,
		Description: req.Description,
		AppType:     project.AppType(req.AppType),
		Template:    req.Template,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	todos := todo.ParseMaster(res.Docs.TodoMaster, time.Now())
	p, err := s.store.CreateProject(project.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		AppType:     project.AppType(req.AppType),
		Template:    req.Template,
		CoreDocs:    res.Docs,
		Todos:       todos,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	s.log.Info("project generated",
		zap.String("id", p.ID),
		zap.Int("todos", len(todos)),
		zap.Int("warnings", len(res.Warnings)))
	c.JSON(http.StatusOK, gin.H{"project": p, "warnings": res.Warnings})
}

type generateExtensionRequest struct {
	APIKey      string `json:"apiKey"`
	Model       string `json:"model"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleGenerateExtension(c *gin.Context) {
	var req generateExtensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and description are required"})
		return
	}
	key := s.apiKeyFor(req.APIKey)
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no API key configured"})
		return
	}

	p, err := s.store.GetProject(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := s.gen.GenerateExtension(c.Request.Context(), generator.ExtensionRequest{
		APIKey:      key,
		Model:       req.Model,
		ProjectName: p.Name,
		ExistingPRD: p.CoreDocs.PRD,
		FeatureName: req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	todos := todo.ParseExtension(res.Docs.Todo, req.Name, time.Now())
	ext, err := s.store.AddExtension(p.ID, req.Name, req.Description, res.Docs, todos)
	if err != nil {
		writeError(c, err)
		return
	}

	updated, _ := s.store.GetProject(p.ID)
	c.JSON(http.StatusOK, gin.H{"extension": ext, "project": updated, "warnings": res.Warnings})
}

type analyzeProgressRequest struct {
	APIKey          string `json:"apiKey"`
	Model           string `json:"model"`
	ProjectID       string `json:"projectId"`
	WorkDescription string `json:"workDescription"`
	CodeSection     string `json:"codeSection"`
}

func (s *Server) handleAnalyzeProgress(c *gin.Context) {
	var req analyzeProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.WorkDescription) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workDescription is required"})
		return
	}

	p, err := s.store.GetProject(req.ProjectID)
	if err != nil {
		writeError(c, err)
		return
	}

	key := s.apiKeyFor(req.APIKey)
	if key != "" {
		matches, err := s.analyzer.Analyze(c.Request.Context(), matcher.AnalyzeRequest{
			APIKey:          key,
			Model:           req.Model,
			Todos:           p.Todos,
			WorkDescription: req.WorkDescription,
			CodeSection:     req.CodeSection,
		})
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"matches": matches, "method": "ai"})
			return
		}
		// Auth failures need the user's attention; everything else
		// degrades to the offline heuristic.
		if gemini.IsAuth(err) {
			writeError(c, err)
			return
		}
		s.log.Warn("analysis degraded to heuristic", zap.Error(err))
	}

	matches := matcher.MatchHeuristic(p.Todos, req.WorkDescription)
	c.JSON(http.StatusOK, gin.H{"matches": matches, "method": "heuristic"})
}

type extractDesignRequest struct {
	URL               string `json:"url"`
	ProjectID         string `json:"projectId"`
	IncludeComponents bool   `json:"includeComponents"`
}

func (s *Server) handleExtractDesign(c *gin.Context) {
	var req extractDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	url := strings.TrimSpace(req.URL)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url must be absolute http(s)"})
		return
	}

	ds, err := s.extractor.Extract(c.Request.Context(), url, design.Options{
		IncludeComponents: req.IncludeComponents,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if req.ProjectID != "" {
		if err := s.store.AttachDesignSystem(req.ProjectID, ds); err != nil {
			writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"designSystem": ds})
}

func (s *Server) handleListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"projects": s.store.ListProjects()})
}

func (s *Server) handleActiveProject(c *gin.Context) {
	p, ok := s.store.ActiveProject()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (s *Server) handleGetProject(c *gin.Context) {
	p, err := s.store.GetProject(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.store.DeleteProject(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSelectProject(c *gin.Context) {
	if err := s.store.SelectProject(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateDocumentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleUpdateDocument(c *gin.Context) {
	var req updateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	kind := project.DocKind(c.Param("kind"))
	if !project.IsCoreKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown document kind"})
		return
	}
	if err := s.store.UpdateDocument(c.Param("id"), kind, req.Content); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateTodoRequest struct {
	Status     string `json:"status"`
	UpdatedBy  string `json:"updatedBy"`
	Confidence *int   `json:"confidence"`
}

var validStatuses = map[project.TodoStatus]bool{
	project.StatusPending:    true,
	project.StatusInProgress: true,
	project.StatusDone:       true,
}

func (s *Server) handleUpdateTodoStatus(c *gin.Context) {
	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	status := project.TodoStatus(req.Status)
	if !validStatuses[status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	by := project.UpdatedByManual
	if req.UpdatedBy == string(project.UpdatedByAI) {
		by = project.UpdatedByAI
	}

	if err := s.store.UpdateTodoStatus(c.Param("id"), c.Param("todoId"), status, by, req.Confidence); err != nil {
		writeError(c, err)
		return
	}
	p, _ := s.store.GetProject(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"project": p})
}

type batchTodoRequest struct {
	Updates []project.TodoStatusUpdate `json:"updates"`
}

func (s *Server) handleBatchTodoStatus(c *gin.Context) {
	var req batchTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	for _, u := range req.Updates {
		if !validStatuses[u.Status] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status in batch"})
			return
		}
	}
	if err := s.store.UpdateTodosBatch(c.Param("id"), req.Updates); err != nil {
		writeError(c, err)
		return
	}
	p, _ := s.store.GetProject(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (s *Server) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Settings())
}

func (s *Server) handlePutSettings(c *gin.Context) {
	var settings project.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.store.SaveSettings(settings); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) handleGetWorkflow(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Workflow())
}

func (s *Server) handlePutWorkflow(c *gin.Context) {
	var w project.WorkflowState
	if err := c.ShouldBindJSON(&w); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.store.SaveWorkflow(w); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}
