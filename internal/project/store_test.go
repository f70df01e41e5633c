package project

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func seedProject(t *testing.T, s *Store) *Project {
	t.Helper()
	p, err := s.CreateProject(CreateProjectInput{
		Name:        "Recipe Box",
		Description: "A recipe-sharing app",
		AppType:     AppTypeWeb,
		Todos: []TodoItem{
			mkTodo("TODO-001", "Phase 1: Setup", StatusPending, 2, 0),
			mkTodo("TODO-002", "Phase 1: Setup", StatusPending, 3, 0),
			mkTodo("TODO-003", "Phase 2: Core", StatusPending, 4, 0),
		},
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return p
}

func TestCreateProjectBecomesActive(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	active, ok := s.ActiveProject()
	if !ok || active.ID != p.ID {
		t.Fatalf("active = %v, ok = %v", active, ok)
	}
	if p.Progress.Total != 3 || p.Progress.Percentage != 0 {
		t.Errorf("initial progress = %+v", p.Progress)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	p := seedProject(t, s)

	// Reopen from disk.
	s2, err := NewStore(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := s2.GetProject(p.ID)
	if err != nil {
		t.Fatalf("GetProject after reopen: %v", err)
	}
	if got.Name != "Recipe Box" || len(got.Todos) != 3 {
		t.Errorf("round-tripped project = %+v", got)
	}
	active, ok := s2.ActiveProject()
	if !ok || active.ID != p.ID {
		t.Errorf("active selection lost across reopen")
	}
}

func TestUpdateTodoStatusLifecycle(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	clock := base
	s.SetClock(func() time.Time { return clock })
	p := seedProject(t, s)

	clock = base.Add(time.Hour)
	if err := s.UpdateTodoStatus(p.ID, "TODO-001", StatusInProgress, UpdatedByManual, nil); err != nil {
		t.Fatalf("to in-progress: %v", err)
	}
	got, _ := s.GetProject(p.ID)
	item := got.Todos[0]
	if item.StartedAt == nil || !item.StartedAt.Equal(clock) {
		t.Fatalf("startedAt = %v, want %v", item.StartedAt, clock)
	}
	if item.CompletedAt != nil {
		t.Errorf("completedAt set while in-progress")
	}

	clock = base.Add(2 * time.Hour)
	if err := s.UpdateTodoStatus(p.ID, "TODO-001", StatusDone, UpdatedByManual, nil); err != nil {
		t.Fatalf("to done: %v", err)
	}
	got, _ = s.GetProject(p.ID)
	item = got.Todos[0]
	if item.CompletedAt == nil || !item.CompletedAt.Equal(clock) {
		t.Fatalf("completedAt = %v, want %v", item.CompletedAt, clock)
	}
	if got.Progress.Done != 1 || got.Progress.Percentage != 33 {
		t.Errorf("progress after done = %+v", got.Progress)
	}

	// Regressing to pending clears completedAt but keeps startedAt.
	clock = base.Add(3 * time.Hour)
	if err := s.UpdateTodoStatus(p.ID, "TODO-001", StatusPending, UpdatedByManual, nil); err != nil {
		t.Fatalf("back to pending: %v", err)
	}
	got, _ = s.GetProject(p.ID)
	item = got.Todos[0]
	if item.CompletedAt != nil {
		t.Errorf("completedAt not cleared on regression")
	}
	if item.StartedAt == nil || !item.StartedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("startedAt lost on regression: %v", item.StartedAt)
	}
}

func TestUpdateTodoStatusConfidenceOnlyForAI(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	conf := 85
	if err := s.UpdateTodoStatus(p.ID, "TODO-001", StatusDone, UpdatedByAI, &conf); err != nil {
		t.Fatalf("ai update: %v", err)
	}
	got, _ := s.GetProject(p.ID)
	if got.Todos[0].StatusConfidence == nil || *got.Todos[0].StatusConfidence != 85 {
		t.Errorf("confidence = %v, want 85", got.Todos[0].StatusConfidence)
	}
	if got.Todos[0].StatusUpdatedBy != UpdatedByAI {
		t.Errorf("updatedBy = %q", got.Todos[0].StatusUpdatedBy)
	}

	// A later manual update clears confidence.
	if err := s.UpdateTodoStatus(p.ID, "TODO-001", StatusDone, UpdatedByManual, &conf); err != nil {
		t.Fatalf("manual update: %v", err)
	}
	got, _ = s.GetProject(p.ID)
	if got.Todos[0].StatusConfidence != nil {
		t.Errorf("manual update kept confidence %v", *got.Todos[0].StatusConfidence)
	}
}

func TestUpdateTodosBatchAlwaysAI(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	conf := 90
	err := s.UpdateTodosBatch(p.ID, []TodoStatusUpdate{
		{ID: "TODO-001", Status: StatusDone, Confidence: &conf},
		{ID: "TODO-003", Status: StatusInProgress},
		{ID: "TODO-999", Status: StatusDone}, // unknown, silently skipped
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}

	got, _ := s.GetProject(p.ID)
	for _, id := range []string{"TODO-001", "TODO-003"} {
		for _, item := range got.Todos {
			if item.ID == id && item.StatusUpdatedBy != UpdatedByAI {
				t.Errorf("%s updatedBy = %q, want ai", id, item.StatusUpdatedBy)
			}
		}
	}
	if got.Progress.Done != 1 || got.Progress.InProgress != 1 {
		t.Errorf("progress after batch = %+v", got.Progress)
	}
}

func TestAddExtension(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	extTodos := []TodoItem{
		mkTodo("TODO-EXT-1700000000000-1", "EXT: Dark Mode", StatusPending, 2, 0),
		mkTodo("TODO-EXT-1700000000000-2", "EXT: Dark Mode", StatusPending, 3, 0),
	}
	ext, err := s.AddExtension(p.ID, "Dark Mode", "Theme toggle", ExtensionDocuments{PRD: "# PRD"}, extTodos)
	if err != nil {
		t.Fatalf("AddExtension: %v", err)
	}
	if ext.ID == "" {
		t.Fatal("extension ID empty")
	}

	got, _ := s.GetProject(p.ID)
	if len(got.Todos) != 5 {
		t.Fatalf("todo count = %d, want 5", len(got.Todos))
	}
	// Originals untouched.
	for _, item := range got.Todos[:3] {
		if item.Source != SourceCore || item.ExtensionID != "" {
			t.Errorf("core item mutated: %+v", item)
		}
	}
	// Appended items tagged.
	for _, item := range got.Todos[3:] {
		if item.Source != SourceExtension || item.ExtensionID != ext.ID {
			t.Errorf("extension item not tagged: %+v", item)
		}
	}
	if got.Progress.Total != 5 {
		t.Errorf("progress total = %d, want 5", got.Progress.Total)
	}
}

func TestSelectAndDeleteProject(t *testing.T) {
	s := newTestStore(t)
	a := seedProject(t, s)
	b := seedProject(t, s)

	if err := s.SelectProject(a.ID); err != nil {
		t.Fatalf("SelectProject: %v", err)
	}
	active, _ := s.ActiveProject()
	if active.ID != a.ID {
		t.Errorf("active = %s, want %s", active.ID, a.ID)
	}

	if err := s.DeleteProject(a.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, ok := s.ActiveProject(); ok {
		t.Error("active not cleared after deleting active project")
	}
	if len(s.ListProjects()) != 1 {
		t.Errorf("project count = %d, want 1", len(s.ListProjects()))
	}
	if _, err := s.GetProject(a.ID); err != ErrProjectNotFound {
		t.Errorf("GetProject deleted = %v, want ErrProjectNotFound", err)
	}
	_ = b
}

func TestUpdateDocument(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	if err := s.UpdateDocument(p.ID, DocPRD, "# Revised PRD"); err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}
	got, _ := s.GetProject(p.ID)
	if got.CoreDocs.PRD != "# Revised PRD" {
		t.Errorf("prd = %q", got.CoreDocs.PRD)
	}

	if err := s.UpdateDocument(p.ID, DocKind("bogus"), "x"); err == nil {
		t.Error("unknown kind accepted")
	}
}

func TestReadAccessorsReturnCopies(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	got, _ := s.GetProject(p.ID)
	got.Name = "scribbled"
	got.Todos[0].Status = StatusDone
	started := time.Now()
	got.Todos[0].StartedAt = &started

	fresh, _ := s.GetProject(p.ID)
	if fresh.Name != "Recipe Box" {
		t.Errorf("name mutated through returned pointer: %q", fresh.Name)
	}
	if fresh.Todos[0].Status != StatusPending || fresh.Todos[0].StartedAt != nil {
		t.Errorf("todo mutated through returned pointer: %+v", fresh.Todos[0])
	}

	active, _ := s.ActiveProject()
	active.Todos = nil
	listed := s.ListProjects()
	listed[0].Description = "scribbled"

	fresh, _ = s.GetProject(p.ID)
	if len(fresh.Todos) != 3 || fresh.Description != "A recipe-sharing app" {
		t.Errorf("store state aliased by a read accessor: %+v", fresh)
	}
}

func TestConcurrentReadsAndUpdates(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	// Serializing a read result must be safe while status updates run.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := s.GetProject(p.ID)
				if err != nil {
					t.Errorf("GetProject: %v", err)
					return
				}
				if _, err := json.Marshal(got); err != nil {
					t.Errorf("marshal: %v", err)
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		statuses := []TodoStatus{StatusInProgress, StatusDone, StatusPending}
		for j := 0; j < 50; j++ {
			status := statuses[j%len(statuses)]
			if err := s.UpdateTodoStatus(p.ID, "TODO-001", status, UpdatedByManual, nil); err != nil {
				t.Errorf("UpdateTodoStatus: %v", err)
				return
			}
		}
	}()
	wg.Wait()
}

func TestSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewStore(dir, zap.NewNop())

	got := s.Settings()
	if got.Theme != "system" || !got.AutoSave {
		t.Errorf("defaults = %+v", got)
	}

	got.Theme = "dark"
	got.APIKey = "AIzaTest"
	if err := s.SaveSettings(got); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	s2, _ := NewStore(dir, zap.NewNop())
	if s2.Settings().Theme != "dark" || s2.Settings().APIKey != "AIzaTest" {
		t.Errorf("settings lost across reopen: %+v", s2.Settings())
	}
}
