package project

// DocKind names one of the generated Markdown artifact types.
type DocKind string

const (
	DocIdeaBrief     DocKind = "ideaBrief"
	DocUserStories   DocKind = "userStories"
	DocScreenFlow    DocKind = "screenFlow"
	DocPRD           DocKind = "prd"
	DocTechStack     DocKind = "techStack"
	DocDataModel     DocKind = "dataModel"
	DocAPISpec       DocKind = "apiSpec"
	DocTestScenarios DocKind = "testScenarios"
	DocTodoMaster    DocKind = "todoMaster"
	DocPromptGuide   DocKind = "promptGuide"

	// Extension-only kind; the other three extension kinds reuse the
	// core identifiers above.
	DocTodo DocKind = "todo"
)

// CoreDocumentOrder is the fixed generation order for the ten-document
// batch. The TODO master is generated late so the earlier documents can
// inform it in a future prompt revision; order changes are a behavior
// change and must stay in sync with the orchestrator tests.
var CoreDocumentOrder = []DocKind{
	DocIdeaBrief,
	DocUserStories,
	DocScreenFlow,
	DocPRD,
	DocTechStack,
	DocDataModel,
	DocAPISpec,
	DocTestScenarios,
	DocTodoMaster,
	DocPromptGuide,
}

// ExtensionDocumentOrder is the fixed order for the four-document
// extension batch.
var ExtensionDocumentOrder = []DocKind{
	DocPRD,
	DocDataModel,
	DocTestScenarios,
	DocTodo,
}

// FileNames maps each kind to its canonical exported file name.
var FileNames = map[DocKind]string{
	DocIdeaBrief:     "IDEA_BRIEF.md",
	DocUserStories:   "USER_STORIES.md",
	DocScreenFlow:    "SCREEN_FLOW.md",
	DocPRD:           "PRD_CORE.md",
	DocTechStack:     "TECH_STACK.md",
	DocDataModel:     "DATA_MODEL.md",
	DocAPISpec:       "API_SPEC.md",
	DocTestScenarios: "TEST_SCENARIOS.md",
	DocTodoMaster:    "TODO_MASTER.md",
	DocPromptGuide:   "PROMPT_GUIDE.md",
	DocTodo:          "TODO_EXTENSION.md",
}

// IsCoreKind reports whether k is one of the ten core kinds.
func IsCoreKind(k DocKind) bool {
	for _, kind := range CoreDocumentOrder {
		if kind == k {
			return true
		}
	}
	return false
}

// Get returns the document stored under kind k. Unknown kinds return the
// empty string.
func (d *CoreDocuments) Get(k DocKind) string {
	switch k {
	case DocIdeaBrief:
		return d.IdeaBrief
	case DocUserStories:
		return d.UserStories
	case DocScreenFlow:
		return d.ScreenFlow
	case DocPRD:
		return d.PRD
	case DocTechStack:
		return d.TechStack
	case DocDataModel:
		return d.DataModel
	case DocAPISpec:
		return d.APISpec
	case DocTestScenarios:
		return d.TestScenarios
	case DocTodoMaster:
		return d.TodoMaster
	case DocPromptGuide:
		return d.PromptGuide
	}
	return ""
}

// Set stores content under kind k. Unknown kinds are ignored.
func (d *CoreDocuments) Set(k DocKind, content string) {
	switch k {
	case DocIdeaBrief:
		d.IdeaBrief = content
	case DocUserStories:
		d.UserStories = content
	case DocScreenFlow:
		d.ScreenFlow = content
	case DocPRD:
		d.PRD = content
	case DocTechStack:
		d.TechStack = content
	case DocDataModel:
		d.DataModel = content
	case DocAPISpec:
		d.APISpec = content
	case DocTestScenarios:
		d.TestScenarios = content
	case DocTodoMaster:
		d.TodoMaster = content
	case DocPromptGuide:
		d.PromptGuide = content
	}
}

// Get returns the extension document stored under kind k.
func (d *ExtensionDocuments) Get(k DocKind) string {
	switch k {
	case DocPRD:
		return d.PRD
	case DocDataModel:
		return d.DataModel
	case DocTestScenarios:
		return d.TestScenarios
	case DocTodo:
		return d.Todo
	}
	return ""
}

// Set stores extension content under kind k.
func (d *ExtensionDocuments) Set(k DocKind, content string) {
	switch k {
	case DocPRD:
		d.PRD = content
	case DocDataModel:
		d.DataModel = content
	case DocTestScenarios:
		d.TestScenarios = content
	case DocTodo:
		d.Todo = content
	}
}
