// Package todo extracts TODO items from generated Markdown task lists.
package todo

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"vibedocs/internal/project"
)

// defaultEstimateHours is assumed when a task carries no duration hint.
const defaultEstimateHours = 2.0

var (
	// Phase headings look like "## Phase 1: Setup". Only ## and ###
	// levels count; the # document title is never a phase.
	phaseRe = regexp.MustCompile(`(?i)#+\s*(Phase\s*\d+[:\s]*.+)`)

	// Checkbox bullets: "- [ ] Title" or "* [x] Title".
	checkboxRe = regexp.MustCompile(`(?i)^[-*]\s*\[[ x]\]\s*(.+)`)

	// Duration hints in parentheses, with Korean and English unit
	// spellings in either case: "(4시간)", "(2h)", "(1.5 Hours)".
	hoursRe = regexp.MustCompile(`(?i)\((\d+(?:\.\d+)?)\s*(?:시간|h|hr|hours?)\)`)

	// Any parenthesized run, stripped from the display title.
	parenRe = regexp.MustCompile(`\(.*?\)`)
)

// ParseMaster extracts TODO items from a TODO-master document. Items
// before the first phase heading are ignored; an input yielding no items
// falls back to a canned default plan so a project never starts with an
// empty task list.
func ParseMaster(content string, now time.Time) []project.TodoItem {
	var items []project.TodoItem
	currentPhase := ""

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "## ") || strings.HasPrefix(trimmed, "### ") {
			if m := phaseRe.FindStringSubmatch(trimmed); m != nil {
				currentPhase = strings.TrimSpace(m[1])
			}
			continue
		}
		if currentPhase == "" {
			continue
		}

		m := checkboxRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		raw := strings.TrimSpace(m[1])
		items = append(items, buildItem(fmt.Sprintf("TODO-%03d", len(items)+1), raw, currentPhase, now))
	}

	if len(items) == 0 {
		return defaultMasterItems(now)
	}
	return items
}

// ParseExtension extracts TODO items from an extension TODO document.
// Extension lists have no phase headings; every item lands in a single
// synthetic phase named after the feature, and IDs carry a timestamp so
// they never collide with core IDs or with other extensions.
func ParseExtension(content, featureName string, now time.Time) []project.TodoItem {
	phase := "EXT: " + featureName
	stamp := now.UnixMilli()

	var items []project.TodoItem
	for _, line := range strings.Split(content, "\n") {
		m := checkboxRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		raw := strings.TrimSpace(m[1])
		item := buildItem(fmt.Sprintf("TODO-EXT-%d-%d", stamp, len(items)+1), raw, phase, now)
		item.Source = project.SourceExtension
		items = append(items, item)
	}

	if len(items) == 0 {
		return defaultExtensionItems(featureName, now)
	}
	return items
}

func buildItem(id, rawTitle, phase string, now time.Time) project.TodoItem {
	hours := defaultEstimateHours
	if m := hoursRe.FindStringSubmatch(rawTitle); m != nil {
		fmt.Sscanf(m[1], "%f", &hours)
	}

	title := strings.TrimSpace(parenRe.ReplaceAllString(rawTitle, ""))

	return project.TodoItem{
		ID:              id,
		Title:           title,
		Description:     phase + ": " + rawTitle,
		Phase:           phase,
		Source:          project.SourceCore,
		Status:          project.StatusPending,
		StatusUpdatedBy: project.UpdatedByManual,
		Priority:        derivePriority(rawTitle, phase),
		EstimatedHours:  hours,
		Dependencies:    []string{},
		TestCriteria:    []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// derivePriority ranks a task from markers in its title and its phase
// name. An explicit [critical] marker always wins; phase position only
// matters when the title says nothing stronger. The phase check is a
// substring match, so "Phase 10" also ranks as phase 1.
func derivePriority(rawTitle, phase string) project.Priority {
	lower := strings.ToLower(rawTitle)
	lowerPhase := strings.ToLower(phase)

	switch {
	case strings.Contains(lower, "critical") || strings.Contains(lower, "긴급"):
		return project.PriorityCritical
	case strings.Contains(lowerPhase, "phase 1"):
		return project.PriorityCritical
	case strings.Contains(lower, "high") || strings.Contains(lower, "중요"):
		return project.PriorityHigh
	case strings.Contains(lowerPhase, "phase 2"):
		return project.PriorityHigh
	case strings.Contains(lower, "low"):
		return project.PriorityLow
	default:
		return project.PriorityMedium
	}
}

// defaultMasterItems is the fallback plan when a TODO-master document
// yields nothing parseable: three phases of three generic tasks each.
func defaultMasterItems(now time.Time) []project.TodoItem {
	plan := []struct {
		phase string
		tasks []string
	}{
		{"Phase 1: Setup", []string{
			"Initialize project repository and tooling",
			"Set up development environment",
			"Configure CI pipeline",
		}},
		{"Phase 2: Core Features", []string{
			"Implement core data model",
			"Build primary user flow",
			"Add input validation and error handling",
		}},
		{"Phase 3: Polish", []string{
			"Write end-to-end tests",
			"Improve loading and error states",
			"Prepare deployment configuration",
		}},
	}

	var items []project.TodoItem
	for i, p := range plan {
		for _, task := range p.tasks {
			item := buildItem(fmt.Sprintf("TODO-%03d", len(items)+1), task, p.phase, now)
			// Setup blocks everything; later default phases are all high.
			if i == 0 {
				item.Priority = project.PriorityCritical
			} else {
				item.Priority = project.PriorityHigh
			}
			items = append(items, item)
		}
	}
	return items
}

// defaultExtensionItems is the fallback for an unparseable extension
// TODO document: four generic tasks under the feature's phase.
func defaultExtensionItems(featureName string, now time.Time) []project.TodoItem {
	phase := "EXT: " + featureName
	stamp := now.UnixMilli()
	tasks := []string{
		"Design the feature's data changes",
		"Implement the feature's core logic",
		"Integrate the feature with existing flows",
		"Test the feature end to end",
	}

	items := make([]project.TodoItem, 0, len(tasks))
	for i, task := range tasks {
		item := buildItem(fmt.Sprintf("TODO-EXT-%d-%d", stamp, i+1), task, phase, now)
		item.Source = project.SourceExtension
		items = append(items, item)
	}
	return items
}
