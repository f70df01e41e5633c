package project

import (
	"math"
	"time"
)

// CalculateProgress derives a progress snapshot from a TODO list. It is a
// pure, total function: same list in, same snapshot out (relative to the
// supplied clock value), with no failure mode.
func CalculateProgress(todos []TodoItem, now time.Time) Progress {
	total := len(todos)
	var pending, inProgress, done int
	var estimatedTotal, completedHours float64

	for _, t := range todos {
		switch t.Status {
		case StatusPending:
			pending++
		case StatusInProgress:
			inProgress++
		case StatusDone:
			done++
		}
		estimatedTotal += t.EstimatedHours
		if t.Status == StatusDone {
			if t.ActualHours > 0 {
				completedHours += t.ActualHours
			} else {
				completedHours += t.EstimatedHours
			}
		}
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(done) / float64(total) * 100))
	}
	remaining := estimatedTotal - completedHours

	// Phase breakdown preserves first-encounter order.
	var phaseOrder []string
	phaseTotals := make(map[string]int)
	phaseDone := make(map[string]int)
	for _, t := range todos {
		if _, seen := phaseTotals[t.Phase]; !seen {
			phaseOrder = append(phaseOrder, t.Phase)
		}
		phaseTotals[t.Phase]++
		if t.Status == StatusDone {
			phaseDone[t.Phase]++
		}
	}

	phases := make([]PhaseProgress, 0, len(phaseOrder))
	currentPhase := ""
	for _, name := range phaseOrder {
		pt, pd := phaseTotals[name], phaseDone[name]
		pct := 0
		if pt > 0 {
			pct = int(math.Round(float64(pd) / float64(pt) * 100))
		}
		phases = append(phases, PhaseProgress{Phase: name, Total: pt, Done: pd, Percentage: pct})
		if currentPhase == "" && pd < pt {
			currentPhase = name
		}
	}
	if currentPhase == "" && len(phaseOrder) > 0 {
		currentPhase = phaseOrder[0]
	}

	return Progress{
		Total:               total,
		Pending:             pending,
		InProgress:          inProgress,
		Done:                done,
		Percentage:          percentage,
		EstimatedTotalHours: estimatedTotal,
		CompletedHours:      completedHours,
		RemainingHours:      remaining,
		StartDate:           now,
		EstimatedEndDate:    now.Add(time.Duration(remaining * float64(time.Hour))),
		CurrentPhase:        currentPhase,
		PhaseProgress:       phases,
	}
}
