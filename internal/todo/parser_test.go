package todo

import (
	"strings"
	"testing"
	"time"

	"vibedocs/internal/project"
)

var testNow = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func TestParseMasterBasic(t *testing.T) {
	content := `# TODO Master

## Phase 1: Setup
- [ ] Initialize repository (1h)
- [ ] Configure linting (0.5h)

## Phase 2: Core Features
- [ ] Build recipe list page (4시간)
- [x] Design data model (2 hours)

### Phase 3: Polish
* [ ] Write e2e tests
`
	items := ParseMaster(content, testNow)

	if len(items) != 5 {
		t.Fatalf("item count = %d, want 5", len(items))
	}
	if items[0].ID != "TODO-001" || items[4].ID != "TODO-005" {
		t.Errorf("ids = %s..%s", items[0].ID, items[4].ID)
	}
	if items[0].Phase != "Phase 1: Setup" {
		t.Errorf("phase = %q", items[0].Phase)
	}
	if items[2].Phase != "Phase 2: Core Features" {
		t.Errorf("phase = %q", items[2].Phase)
	}
	if items[4].Phase != "Phase 3: Polish" {
		t.Errorf("### heading not recognized: %q", items[4].Phase)
	}
	// All parsed items start pending regardless of checkbox state.
	for _, item := range items {
		if item.Status != project.StatusPending {
			t.Errorf("%s status = %s", item.ID, item.Status)
		}
		if item.Source != project.SourceCore {
			t.Errorf("%s source = %s", item.ID, item.Source)
		}
	}
}

func TestParseMasterDurations(t *testing.T) {
	content := `## Phase 1: Setup
- [ ] Korean hint (4시간)
- [ ] Short hint (3h)
- [ ] Long hint (1.5 hours)
- [ ] Hr hint (2hr)
- [ ] Upper short hint (4H)
- [ ] Upper long hint (3 Hours)
- [ ] No hint at all
`
	items := ParseMaster(content, testNow)
	wants := []float64{4, 3, 1.5, 2, 4, 3, 2}
	for i, want := range wants {
		if items[i].EstimatedHours != want {
			t.Errorf("item %d hours = %v, want %v", i, items[i].EstimatedHours, want)
		}
	}
	// Parenthesized hints are stripped from titles but kept in the
	// description.
	if strings.Contains(items[0].Title, "(") {
		t.Errorf("title kept parens: %q", items[0].Title)
	}
	if !strings.Contains(items[0].Description, "(4시간)") {
		t.Errorf("description lost raw title: %q", items[0].Description)
	}
}

func TestParseMasterPriorityPrecedence(t *testing.T) {
	content := `## Phase 2: Core
- [ ] [critical] Fix auth bypass
- [ ] [high] Add caching
- [ ] [low] Tweak colors
- [ ] Plain task
`
	items := ParseMaster(content, testNow)

	// Title-level critical beats the phase-2 rule.
	if items[0].Priority != project.PriorityCritical {
		t.Errorf("critical marker priority = %s", items[0].Priority)
	}
	if items[1].Priority != project.PriorityHigh {
		t.Errorf("high marker priority = %s", items[1].Priority)
	}
	// Phase 2 beats the title-level low marker's default... the low
	// marker only applies when the phase says nothing stronger.
	if items[2].Priority != project.PriorityHigh {
		t.Errorf("phase-2 low marker priority = %s", items[2].Priority)
	}
	if items[3].Priority != project.PriorityHigh {
		t.Errorf("phase-2 plain priority = %s", items[3].Priority)
	}
}

func TestParseMasterPhaseOnePriority(t *testing.T) {
	content := `## Phase 1: Setup
- [ ] Anything here
## Phase 3: Later
- [ ] Plain task
- [ ] [low] Minor task
`
	items := ParseMaster(content, testNow)
	if items[0].Priority != project.PriorityCritical {
		t.Errorf("phase 1 priority = %s", items[0].Priority)
	}
	if items[1].Priority != project.PriorityMedium {
		t.Errorf("phase 3 plain priority = %s", items[1].Priority)
	}
	if items[2].Priority != project.PriorityLow {
		t.Errorf("phase 3 low priority = %s", items[2].Priority)
	}
}

func TestParseMasterTwoDigitPhasePriority(t *testing.T) {
	// The phase rule is a substring match on the phase name, so a
	// two-digit phase starting with the same digit inherits its rank.
	content := `## Phase 10: Deployment
- [ ] Ship it
## Phase 21: Follow-up
- [ ] Revisit later
`
	items := ParseMaster(content, testNow)
	if items[0].Priority != project.PriorityCritical {
		t.Errorf("phase 10 priority = %s, want critical", items[0].Priority)
	}
	if items[1].Priority != project.PriorityHigh {
		t.Errorf("phase 21 priority = %s, want high", items[1].Priority)
	}
}

func TestParseMasterSingleLineExtraction(t *testing.T) {
	content := "## Phase 1: Setup\n- [ ] Build login API (4시간)\n"
	items := ParseMaster(content, testNow)

	if len(items) != 1 {
		t.Fatalf("items = %+v", items)
	}
	got := items[0]
	if got.Phase != "Phase 1: Setup" || got.Title != "Build login API" ||
		got.EstimatedHours != 4 || got.Priority != project.PriorityCritical {
		t.Errorf("item = %+v", got)
	}
}

func TestParseMasterIgnoresItemsBeforeFirstPhase(t *testing.T) {
	content := `# Title
- [ ] Orphan task

## Phase 1: Setup
- [ ] Real task
`
	items := ParseMaster(content, testNow)
	if len(items) != 1 || items[0].Title != "Real task" {
		t.Fatalf("items = %+v", items)
	}
}

func TestParseMasterNeverEmpty(t *testing.T) {
	for _, content := range []string{"", "no structure at all", "## Phase 1: Empty\nno checkboxes"} {
		items := ParseMaster(content, testNow)
		if len(items) != 9 {
			t.Fatalf("default count = %d for %q, want 9", len(items), content)
		}
		for _, item := range items[:3] {
			if item.Priority != project.PriorityCritical {
				t.Errorf("default phase 1 priority = %s", item.Priority)
			}
		}
		for _, item := range items[3:] {
			if item.Priority != project.PriorityHigh {
				t.Errorf("default later-phase priority = %s", item.Priority)
			}
		}
	}
}

func TestParseExtension(t *testing.T) {
	content := `# Dark Mode TODO
- [ ] Add theme context (2h)
- [ ] [critical] Persist user preference (1h)
`
	items := ParseExtension(content, "Dark Mode", testNow)

	if len(items) != 2 {
		t.Fatalf("item count = %d", len(items))
	}
	for i, item := range items {
		if item.Phase != "EXT: Dark Mode" {
			t.Errorf("phase = %q", item.Phase)
		}
		if item.Source != project.SourceExtension {
			t.Errorf("source = %s", item.Source)
		}
		wantPrefix := "TODO-EXT-"
		if !strings.HasPrefix(item.ID, wantPrefix) || !strings.HasSuffix(item.ID, "-"+string(rune('1'+i))) {
			t.Errorf("id = %q", item.ID)
		}
	}
	if items[1].Priority != project.PriorityCritical {
		t.Errorf("critical marker priority = %s", items[1].Priority)
	}
}

func TestParseExtensionNeverEmpty(t *testing.T) {
	items := ParseExtension("nothing parseable", "Search", testNow)
	if len(items) != 4 {
		t.Fatalf("default count = %d, want 4", len(items))
	}
	for _, item := range items {
		if item.Phase != "EXT: Search" || item.Source != project.SourceExtension {
			t.Errorf("default item = %+v", item)
		}
	}
}
