// Package prompt is the template registry: per-document system prompts
// for the core and extension batches, plus the progress-matching prompt.
package prompt

import (
	"fmt"
	"strings"

	"vibedocs/internal/project"
)

// Titles maps each document kind to its human-readable title, used in
// placeholders and exports.
var Titles = map[project.DocKind]string{
	project.DocIdeaBrief:     "Idea Brief",
	project.DocUserStories:   "User Stories",
	project.DocScreenFlow:    "Screen Flow",
	project.DocPRD:           "Product Requirements Document",
	project.DocTechStack:     "Tech Stack",
	project.DocDataModel:     "Data Model",
	project.DocAPISpec:       "API Specification",
	project.DocTestScenarios: "Test Scenarios",
	project.DocTodoMaster:    "TODO Master",
	project.DocPromptGuide:   "Prompt Guide",
	project.DocTodo:          "Extension TODO",
}

const markdownRules = `Respond with well-formed Markdown only: a single # title, ## section
headings, and - bullet lists. No preamble, no closing remarks, no code
fences around the whole document.`

// systemPrompts holds the per-kind generation instructions for the
// ten-document core batch.
var systemPrompts = map[project.DocKind]string{
	project.DocIdeaBrief: `You are a senior product strategist. Turn the user's raw product idea
into an Idea Brief: the problem being solved, the target users, the core
value proposition, three key differentiators, and the single riskiest
assumption. Keep it under a page. ` + markdownRules,

	project.DocUserStories: `You are a product manager. Write user stories for the described
product. Group them by user role. Each story uses the form "As a <role>,
I want <capability> so that <benefit>" and carries acceptance criteria
as sub-bullets. Cover the core flows first, then secondary flows. ` + markdownRules,

	project.DocScreenFlow: `You are a UX architect. Describe the screen flow of the product: every
screen, its purpose, its primary actions, and the navigation edges
between screens. Present screens as ## sections and the overall flow as
an ordered list at the top. ` + markdownRules,

	project.DocPRD: `You are a product manager writing a Product Requirements Document.
Include: overview, goals and non-goals, functional requirements grouped
by feature area with priority labels (P0/P1/P2), non-functional
requirements, and release criteria. Be specific enough that an engineer
could estimate from it. ` + markdownRules,

	project.DocTechStack: `You are a pragmatic staff engineer. Recommend a concrete tech stack for
this product: frontend, backend, database, hosting, and third-party
services. For each choice give one sentence of rationale and one named
alternative. Prefer boring, well-supported technology. ` + markdownRules,

	project.DocDataModel: `You are a backend engineer. Design the data model: every entity, its
fields with types, and the relationships between entities. Present each
entity as a ## section with a field table, and finish with a short
relationships summary. ` + markdownRules,

	project.DocAPISpec: `You are an API designer. Specify the HTTP API for this product: every
endpoint with method, path, request body, response body, and error
responses. Group endpoints by resource. Use JSON examples for bodies. ` + markdownRules,

	project.DocTestScenarios: `You are a QA engineer. Write test scenarios covering the product's core
flows: happy paths, the most important edge cases, and failure modes.
Group scenarios by feature. Each scenario lists preconditions, steps,
and expected results. ` + markdownRules,

	project.DocTodoMaster: `You are an engineering lead planning the build. Produce a phased TODO
list for implementing this product.

Format rules (the output is machine-parsed, follow them exactly):
- Phases are headings: "## Phase 1: Setup", "## Phase 2: ..." and so on.
- Every task is a checkbox bullet: "- [ ] Task title (Nh)" where N is
  the estimated hours.
- Mark foundational tasks in Phase 1; order phases by dependency.
- Prefix truly blocking tasks with [critical] and important ones with
  [high] in the task title.
- 3 to 5 phases, 3 to 8 tasks per phase. No prose between tasks.`,

	project.DocPromptGuide: `You are a developer-experience writer. Produce a Prompt Guide: for each
major feature of the product, a ready-to-paste coding-assistant prompt
that an engineer can use to implement that feature, including the
relevant context from the other planning documents. Present each prompt
in a fenced code block under a ## heading named after the feature. ` + markdownRules,
}

// extensionPrompts holds the instructions for the four-document feature
// extension batch. PRD, data model, and test scenarios reuse the core
// register but scope to the single feature.
var extensionPrompts = map[project.DocKind]string{
	project.DocPRD: `You are a product manager. Write a focused PRD for ONE feature being
added to an existing product. Cover: what the feature does, why it is
worth building now, functional requirements with priorities, how it
integrates with the existing product, and out-of-scope items. ` + markdownRules,

	project.DocDataModel: `You are a backend engineer. Design only the data-model changes this
feature requires: new entities, new fields on existing entities, and
new relationships. Call out migrations explicitly. ` + markdownRules,

	project.DocTestScenarios: `You are a QA engineer. Write test scenarios for this single feature:
its happy path, edge cases, and regressions it could cause in the
existing product. ` + markdownRules,

	project.DocTodo: `You are an engineering lead. Produce the TODO list for implementing ONE
feature in an existing codebase.

Format rules (the output is machine-parsed, follow them exactly):
- Every task is a checkbox bullet: "- [ ] Task title (Nh)" where N is
  the estimated hours.
- Prefix blocking tasks with [critical] and important ones with [high].
- 4 to 10 tasks, ordered by dependency. No phase headings, no prose.`,
}

// System returns the system prompt for a core document kind.
func System(kind project.DocKind) (string, bool) {
	p, ok := systemPrompts[kind]
	return p, ok
}

// ExtensionSystem returns the system prompt for an extension document
// kind.
func ExtensionSystem(kind project.DocKind) (string, bool) {
	p, ok := extensionPrompts[kind]
	return p, ok
}

// ProjectContext renders the shared context block prepended to every
// core generation call so all ten documents describe the same product.
func ProjectContext(name, description string, appType project.AppType, template string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product name: %s\n", name)
	fmt.Fprintf(&b, "Target platform: %s\n", appType)
	if template != "" {
		fmt.Fprintf(&b, "Product template: %s\n", template)
	}
	fmt.Fprintf(&b, "\nProduct idea:\n%s\n", description)
	return b.String()
}

// ExtensionContext renders the context block for extension generation:
// the feature description plus enough of the existing project for the
// model to integrate against.
func ExtensionContext(projectName, existingPRD, featureName, featureDescription string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Existing product: %s\n\n", projectName)
	if existingPRD != "" {
		fmt.Fprintf(&b, "Existing PRD (for integration context):\n%s\n\n", existingPRD)
	}
	fmt.Fprintf(&b, "Feature to add: %s\n\nFeature description:\n%s\n", featureName, featureDescription)
	return b.String()
}

// matchSystem instructs the model to map a work description onto TODO
// items and answer in strict JSON.
const matchSystem = `You analyze software progress reports. Given a numbered TODO list and a
description of work that was just completed, decide which TODO items the
work corresponds to.

Answer with ONLY a JSON object, no prose, in this exact shape:
{
  "matches": [
    {
      "todoId": "<id from the list>",
      "confidence": <0-100 integer>,
      "reason": "<one short sentence>",
      "suggestedStatus": "done" | "in-progress"
    }
  ]
}

Rules: only include items genuinely related to the described work; use
"done" only when the description clearly states the item is finished;
confidence reflects how certain the mapping is.`

// MatchSystem returns the system prompt for progress matching.
func MatchSystem() string {
	return matchSystem
}

// MatchUser renders the user prompt for progress matching. Candidates
// should already exclude completed items.
func MatchUser(todos []project.TodoItem, workDescription, codeSection string) string {
	var b strings.Builder
	b.WriteString("TODO list:\n")
	for _, t := range todos {
		fmt.Fprintf(&b, "- id=%s [%s] (%s) %s\n", t.ID, t.Status, t.Phase, t.Title)
	}
	fmt.Fprintf(&b, "\nWork completed:\n%s\n", workDescription)
	if codeSection != "" {
		fmt.Fprintf(&b, "\nRelated code or diff:\n%s\n", codeSection)
	}
	return b.String()
}
