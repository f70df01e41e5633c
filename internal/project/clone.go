package project

// Clone returns a deep copy of the project. The store hands copies to
// callers so nothing outside its lock ever aliases live state.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Extensions = append([]Extension(nil), p.Extensions...)
	cp.Todos = make([]TodoItem, len(p.Todos))
	for i := range p.Todos {
		cp.Todos[i] = p.Todos[i].clone()
	}
	cp.Progress.PhaseProgress = append([]PhaseProgress(nil), p.Progress.PhaseProgress...)
	cp.DesignSystem = p.DesignSystem.clone()
	return &cp
}

func (t TodoItem) clone() TodoItem {
	cp := t
	cp.StatusConfidence = clonePtr(t.StatusConfidence)
	cp.StartedAt = clonePtr(t.StartedAt)
	cp.CompletedAt = clonePtr(t.CompletedAt)
	cp.Dependencies = append([]string(nil), t.Dependencies...)
	cp.TestCriteria = append([]string(nil), t.TestCriteria...)
	return cp
}

func (d *DesignSystem) clone() *DesignSystem {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Colors = cloneAnyMap(d.Colors)
	cp.Typography = cloneAnyMap(d.Typography)
	cp.Spacing = cloneAnyMap(d.Spacing)
	cp.Effects = cloneAnyMap(d.Effects)
	cp.Components = make([]ComponentStub, len(d.Components))
	for i, c := range d.Components {
		c.Styles = cloneStringMap(c.Styles)
		c.Variants = append([]string(nil), c.Variants...)
		cp.Components[i] = c
	}
	return &cp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
