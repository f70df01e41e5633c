// Package project holds the VibeDocs data model and the persisted
// project/TODO state store.
package project

import "time"

// AppType describes the kind of application a project targets.
type AppType string

const (
	AppTypeWeb    AppType = "web"
	AppTypeMobile AppType = "mobile"
	AppTypeBoth   AppType = "both"
)

// TodoStatus is the lifecycle state of a single TODO item.
type TodoStatus string

const (
	StatusPending    TodoStatus = "pending"
	StatusInProgress TodoStatus = "in-progress"
	StatusDone       TodoStatus = "done"
)

// Priority ranks a TODO item.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// UpdateSource records who last changed a TODO's status.
type UpdateSource string

const (
	UpdatedByManual UpdateSource = "manual"
	UpdatedByAI     UpdateSource = "ai"
)

// TodoSource distinguishes items parsed from the core TODO master from
// items appended by a feature extension.
type TodoSource string

const (
	SourceCore      TodoSource = "core"
	SourceExtension TodoSource = "extension"
)

// CoreDocuments is the fixed bundle of ten generated Markdown documents.
// All ten keys are always present; a failed generation stores a fallback
// placeholder, never an absent field.
type CoreDocuments struct {
	IdeaBrief     string `json:"ideaBrief"`
	UserStories   string `json:"userStories"`
	ScreenFlow    string `json:"screenFlow"`
	PRD           string `json:"prd"`
	TechStack     string `json:"techStack"`
	DataModel     string `json:"dataModel"`
	APISpec       string `json:"apiSpec"`
	TestScenarios string `json:"testScenarios"`
	TodoMaster    string `json:"todoMaster"`
	PromptGuide   string `json:"promptGuide"`
}

// ExtensionDocuments is the four-document bundle for a feature extension.
type ExtensionDocuments struct {
	PRD           string `json:"prd"`
	DataModel     string `json:"dataModel"`
	TestScenarios string `json:"testScenarios"`
	Todo          string `json:"todo"`
}

// Extension is a feature extension appended to an existing project.
type Extension struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Docs        ExtensionDocuments `json:"docs"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// TodoItem is the central mutable entity tracked by the dashboard.
//
// Invariants maintained by the store:
//   - CompletedAt is set if and only if Status is StatusDone.
//   - StartedAt is set on the first transition into StatusInProgress and
//     never cleared afterwards, even if the item returns to pending.
//
// Status transitions themselves are unconstrained: progress is asserted
// by a human or the AI matcher, not enforced by a workflow engine.
type TodoItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Phase       string     `json:"phase"`
	Source      TodoSource `json:"source"`
	ExtensionID string     `json:"extensionId,omitempty"`

	Status           TodoStatus   `json:"status"`
	StatusUpdatedBy  UpdateSource `json:"statusUpdatedBy"`
	StatusConfidence *int         `json:"statusConfidence,omitempty"`

	Priority       Priority `json:"priority"`
	EstimatedHours float64  `json:"estimatedHours"`
	ActualHours    float64  `json:"actualHours,omitempty"`

	// Dependencies is reserved: generation never populates it today.
	Dependencies []string `json:"dependencies"`
	Prompt       string   `json:"prompt"`
	TestCriteria []string `json:"testCriteria"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// PhaseProgress is the per-phase slice of a progress snapshot.
type PhaseProgress struct {
	Phase      string `json:"phase"`
	Total      int    `json:"total"`
	Done       int    `json:"done"`
	Percentage int    `json:"percentage"`
}

// Progress is a derived, read-only view of a project's TODO list. It is
// recomputed synchronously on every TODO mutation and never stored
// independently of the list it summarizes.
type Progress struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
	Percentage int `json:"percentage"`

	EstimatedTotalHours float64 `json:"estimatedTotalHours"`
	CompletedHours      float64 `json:"completedHours"`
	RemainingHours      float64 `json:"remainingHours"`

	StartDate        time.Time `json:"startDate"`
	EstimatedEndDate time.Time `json:"estimatedEndDate"`

	CurrentPhase  string          `json:"currentPhase"`
	PhaseProgress []PhaseProgress `json:"phaseProgress"`
}

// Project is the aggregate root. It exclusively owns its documents,
// extensions, and TODO items.
type Project struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"` // verbatim idea text
	AppType     AppType `json:"appType"`
	Template    string  `json:"template,omitempty"`

	CoreDocs   CoreDocuments `json:"coreDocs"`
	Extensions []Extension   `json:"extensions"`
	Todos      []TodoItem    `json:"todos"`
	Progress   Progress      `json:"progress"`

	DesignSystem *DesignSystem `json:"designSystem,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DesignSystem is the opaque output of the design-extraction collaborator,
// attachable to a project. The concrete shape lives in internal/design;
// the store only round-trips it.
type DesignSystem struct {
	SourceURL   string          `json:"sourceUrl"`
	ExtractedAt time.Time       `json:"extractedAt"`
	Colors      map[string]any  `json:"colors"`
	Typography  map[string]any  `json:"typography"`
	Spacing     map[string]any  `json:"spacing"`
	Effects     map[string]any  `json:"effects"`
	Components  []ComponentStub `json:"components,omitempty"`
}

// ComponentStub mirrors a sampled component entry without binding the
// store to the extractor's internal types.
type ComponentStub struct {
	Type     string            `json:"type"`
	Count    int               `json:"count"`
	Styles   map[string]string `json:"styles"`
	Variants []string          `json:"variants"`
}

// Settings is the user-settings record, persisted independently of
// project state.
type Settings struct {
	APIKey           string `json:"apiKey,omitempty"`
	Theme            string `json:"theme"`    // light, dark, system
	Language         string `json:"language"` // ko, en
	AutoSave         bool   `json:"autoSave"`
	AutoSaveInterval int    `json:"autoSaveInterval"` // ms
}

// DefaultSettings returns the settings used before the user saves any.
func DefaultSettings() Settings {
	return Settings{
		Theme:            "system",
		Language:         "en",
		AutoSave:         true,
		AutoSaveInterval: 30000,
	}
}

// WorkflowChecklistItem is one checkbox in a workflow step.
type WorkflowChecklistItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Checked     bool   `json:"checked"`
}

// WorkflowStep tracks progress through the guided workflow.
type WorkflowStep struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Status    string                  `json:"status"` // locked, available, in-progress, completed
	Checklist []WorkflowChecklistItem `json:"checklist"`
}

// WorkflowState is the third persisted record: checklist progress.
type WorkflowState struct {
	CurrentStep string         `json:"currentStep"`
	Steps       []WorkflowStep `json:"steps"`
	StartedAt   *time.Time     `json:"startedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}
