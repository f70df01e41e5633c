package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// File names for the three independent persisted records.
const (
	projectsFile = "projects.json"
	settingsFile = "settings.json"
	workflowFile = "workflow.json"
)

// storeState is the persisted subset of the store: the active selection
// plus all known projects. Everything else held by Store is runtime-only,
// so serialization is this one explicit boundary rather than per-field
// opt-in.
type storeState struct {
	ActiveID string     `json:"activeId,omitempty"`
	Projects []*Project `json:"projects"`
}

// Store is the authoritative project/TODO state. All mutations are
// applied under one lock and flushed to disk before returning; there is
// exactly one writer, so no finer-grained concurrency control is needed.
type Store struct {
	mu      sync.Mutex
	dataDir string
	log     *zap.Logger
	now     func() time.Time

	state    storeState
	settings Settings
	workflow WorkflowState
}

// CreateProjectInput carries everything needed to create a project.
type CreateProjectInput struct {
	Name        string
	Description string
	AppType     AppType
	Template    string
	CoreDocs    CoreDocuments
	Todos       []TodoItem
}

// TodoStatusUpdate is one entry of a batch status update.
type TodoStatusUpdate struct {
	ID         string     `json:"id"`
	Status     TodoStatus `json:"status"`
	Confidence *int       `json:"confidence,omitempty"`
}

// ErrProjectNotFound is returned when an operation names an unknown project.
var ErrProjectNotFound = fmt.Errorf("project not found")

// ErrTodoNotFound is returned when a status update names an unknown TODO.
var ErrTodoNotFound = fmt.Errorf("todo not found")

// NewStore opens (or initializes) the store rooted at dataDir.
func NewStore(dataDir string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		dataDir:  dataDir,
		log:      log.Named("store"),
		now:      time.Now,
		settings: DefaultSettings(),
	}

	if err := s.loadRecord(projectsFile, &s.state); err != nil {
		return nil, err
	}
	if err := s.loadRecord(settingsFile, &s.settings); err != nil {
		return nil, err
	}
	if err := s.loadRecord(workflowFile, &s.workflow); err != nil {
		return nil, err
	}

	s.log.Info("store opened",
		zap.String("data_dir", dataDir),
		zap.Int("projects", len(s.state.Projects)))
	return s, nil
}

// SetClock overrides the store's clock. Tests only.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) loadRecord(name string, out any) error {
	path := filepath.Join(s.dataDir, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) saveRecord(name string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dataDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) saveProjectsLocked() error {
	return s.saveRecord(projectsFile, &s.state)
}

func (s *Store) findLocked(id string) *Project {
	for _, p := range s.state.Projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CreateProject registers a new project, computes its initial progress
// from the supplied TODO list, and makes it the active selection.
func (s *Store) CreateProject(input CreateProjectInput) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := &Project{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		AppType:     input.AppType,
		Template:    input.Template,
		CoreDocs:    input.CoreDocs,
		Extensions:  []Extension{},
		Todos:       input.Todos,
		Progress:    CalculateProgress(input.Todos, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Todos == nil {
		p.Todos = []TodoItem{}
	}

	s.state.Projects = append(s.state.Projects, p)
	s.state.ActiveID = p.ID
	if err := s.saveProjectsLocked(); err != nil {
		return nil, err
	}
	s.log.Info("project created",
		zap.String("id", p.ID),
		zap.String("name", p.Name),
		zap.Int("todos", len(p.Todos)))
	return p.Clone(), nil
}

// ActiveProject returns a copy of the currently selected project, if any.
// All read accessors return deep copies so callers can hold or serialize
// the result without racing later mutations.
func (s *Store) ActiveProject() (*Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findLocked(s.state.ActiveID)
	return p.Clone(), p != nil
}

// GetProject returns a copy of a project by ID.
func (s *Store) GetProject(id string) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findLocked(id)
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p.Clone(), nil
}

// ListProjects returns copies of all known projects.
func (s *Store) ListProjects() []*Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Project, len(s.state.Projects))
	for i, p := range s.state.Projects {
		out[i] = p.Clone()
	}
	return out
}

// SelectProject makes the given project the active one. Selection is a
// pure pointer switch; nothing is copied.
func (s *Store) SelectProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocked(id) == nil {
		return ErrProjectNotFound
	}
	s.state.ActiveID = id
	return s.saveProjectsLocked()
}

// ClearActive drops the active selection without deleting anything.
func (s *Store) ClearActive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveID = ""
	return s.saveProjectsLocked()
}

// DeleteProject removes a project entirely.
func (s *Store) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.state.Projects {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrProjectNotFound
	}
	s.state.Projects = append(s.state.Projects[:idx], s.state.Projects[idx+1:]...)
	if s.state.ActiveID == id {
		s.state.ActiveID = ""
	}
	return s.saveProjectsLocked()
}

// UpdateDocument replaces a single core document.
func (s *Store) UpdateDocument(projectID string, kind DocKind, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findLocked(projectID)
	if p == nil {
		return ErrProjectNotFound
	}
	if !IsCoreKind(kind) {
		return fmt.Errorf("unknown document kind %q", kind)
	}
	p.CoreDocs.Set(kind, content)
	p.UpdatedAt = s.now()
	return s.saveProjectsLocked()
}

// applyStatusLocked mutates one TODO in place per the lifecycle rules:
// completedAt tracks done-ness exactly, startedAt is sticky once set, and
// confidence is only recorded for AI updates.
func applyStatusLocked(t *TodoItem, status TodoStatus, by UpdateSource, confidence *int, now time.Time) {
	t.Status = status
	t.StatusUpdatedBy = by
	if by == UpdatedByAI {
		t.StatusConfidence = confidence
	} else {
		t.StatusConfidence = nil
	}
	t.UpdatedAt = now

	if status == StatusInProgress && t.StartedAt == nil {
		started := now
		t.StartedAt = &started
	}
	if status == StatusDone {
		completed := now
		t.CompletedAt = &completed
	} else {
		t.CompletedAt = nil
	}
}

// UpdateTodoStatus sets a single TODO's status and recomputes progress.
func (s *Store) UpdateTodoStatus(projectID, todoID string, status TodoStatus, by UpdateSource, confidence *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findLocked(projectID)
	if p == nil {
		return ErrProjectNotFound
	}

	now := s.now()
	found := false
	for i := range p.Todos {
		if p.Todos[i].ID == todoID {
			applyStatusLocked(&p.Todos[i], status, by, confidence, now)
			found = true
			break
		}
	}
	if !found {
		return ErrTodoNotFound
	}

	p.Progress = CalculateProgress(p.Todos, now)
	p.UpdatedAt = now
	return s.saveProjectsLocked()
}

// UpdateTodosBatch applies many status updates at once. Batch updates are
// always attributed to the AI matcher.
func (s *Store) UpdateTodosBatch(projectID string, updates []TodoStatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findLocked(projectID)
	if p == nil {
		return ErrProjectNotFound
	}

	byID := make(map[string]TodoStatusUpdate, len(updates))
	for _, u := range updates {
		byID[u.ID] = u
	}

	now := s.now()
	applied := 0
	for i := range p.Todos {
		u, ok := byID[p.Todos[i].ID]
		if !ok {
			continue
		}
		applyStatusLocked(&p.Todos[i], u.Status, UpdatedByAI, u.Confidence, now)
		applied++
	}

	p.Progress = CalculateProgress(p.Todos, now)
	p.UpdatedAt = now
	s.log.Info("batch status update",
		zap.String("project", projectID),
		zap.Int("requested", len(updates)),
		zap.Int("applied", applied))
	return s.saveProjectsLocked()
}

// AddExtension appends an extension and its TODOs to a project. The
// extension gets a fresh ID, every supplied TODO is tagged with it, and
// progress is recomputed over the concatenated list. Existing TODOs are
// never touched.
func (s *Store) AddExtension(projectID string, name, description string, docs ExtensionDocuments, todos []TodoItem) (*Extension, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findLocked(projectID)
	if p == nil {
		return nil, ErrProjectNotFound
	}

	now := s.now()
	ext := Extension{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Docs:        docs,
		CreatedAt:   now,
	}

	tagged := make([]TodoItem, len(todos))
	for i, t := range todos {
		t.Source = SourceExtension
		t.ExtensionID = ext.ID
		tagged[i] = t
	}

	p.Extensions = append(p.Extensions, ext)
	p.Todos = append(p.Todos, tagged...)
	p.Progress = CalculateProgress(p.Todos, now)
	p.UpdatedAt = now

	if err := s.saveProjectsLocked(); err != nil {
		return nil, err
	}
	s.log.Info("extension added",
		zap.String("project", projectID),
		zap.String("extension", ext.ID),
		zap.Int("todos", len(tagged)))
	return &ext, nil
}

// AttachDesignSystem stores an extracted design system on a project.
func (s *Store) AttachDesignSystem(projectID string, ds *DesignSystem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findLocked(projectID)
	if p == nil {
		return ErrProjectNotFound
	}
	p.DesignSystem = ds
	p.UpdatedAt = s.now()
	return s.saveProjectsLocked()
}

// Settings returns the current user settings.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SaveSettings replaces the user settings record.
func (s *Store) SaveSettings(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return s.saveRecord(settingsFile, &s.settings)
}

// Workflow returns the workflow-checklist record.
func (s *Store) Workflow() WorkflowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workflow
}

// SaveWorkflow replaces the workflow-checklist record.
func (s *Store) SaveWorkflow(w WorkflowState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflow = w
	return s.saveRecord(workflowFile, &s.workflow)
}
