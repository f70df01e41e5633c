// Package matcher maps free-form work descriptions onto TODO items,
// either by asking the LLM or with a deterministic keyword heuristic.
package matcher

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"go.uber.org/zap"

	"vibedocs/internal/gemini"
	"vibedocs/internal/project"
	"vibedocs/internal/prompt"
)

// minConfidence is the floor below which an LLM match is discarded.
const minConfidence = 50

// autoSelectThreshold marks matches confident enough to apply without
// user review.
const autoSelectThreshold = 70

// ErrNoJSON is returned when the model's reply contains no parseable
// JSON object. Callers fall back to the heuristic.
var ErrNoJSON = errors.New("no JSON object in model response")

// Match is one TODO the analysis believes the described work covers.
type Match struct {
	TodoID          string             `json:"todoId"`
	Title           string             `json:"title"`
	Confidence      int                `json:"confidence"`
	Reason          string             `json:"reason"`
	SuggestedStatus project.TodoStatus `json:"suggestedStatus"`
	AutoSelect      bool               `json:"autoSelect"`
}

// Analyzer runs the LLM matching strategy.
type Analyzer struct {
	gw  Gateway
	log *zap.Logger
}

// Gateway is the completion surface the analyzer needs.
type Gateway interface {
	Generate(ctx context.Context, req gemini.GenerateRequest) (string, error)
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(gw Gateway, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{gw: gw, log: log.Named("matcher")}
}

// AnalyzeRequest carries one progress analysis.
type AnalyzeRequest struct {
	APIKey          string
	Model           string
	Todos           []project.TodoItem
	WorkDescription string
	CodeSection     string
}

// rawMatch mirrors the JSON contract the model is asked to follow.
type rawMatch struct {
	TodoID          string `json:"todoId"`
	Confidence      int    `json:"confidence"`
	Reason          string `json:"reason"`
	SuggestedStatus string `json:"suggestedStatus"`
}

type matchEnvelope struct {
	Matches []rawMatch `json:"matches"`
}

// Analyze asks the model which open TODO items the described work
// corresponds to. Completed items are never candidates. The model's
// reply is parsed tolerantly: the first balanced JSON object found
// anywhere in the text is used. A reply with no such object returns
// ErrNoJSON so the caller can fall back to MatchHeuristic.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) ([]Match, error) {
	candidates := openItems(req.Todos)
	if len(candidates) == 0 {
		return nil, nil
	}

	text, err := a.gw.Generate(ctx, gemini.GenerateRequest{
		APIKey: req.APIKey,
		Model:  req.Model,
		System: prompt.MatchSystem(),
		Prompt: prompt.MatchUser(candidates, req.WorkDescription, req.CodeSection),
	})
	if err != nil {
		return nil, err
	}

	env, err := extractEnvelope(text)
	if err != nil {
		a.log.Warn("unparseable analysis response", zap.Int("response_len", len(text)))
		return nil, err
	}

	byID := make(map[string]project.TodoItem, len(candidates))
	for _, t := range candidates {
		byID[t.ID] = t
	}

	var matches []Match
	for _, raw := range env.Matches {
		item, ok := byID[raw.TodoID]
		if !ok {
			continue
		}
		conf := raw.Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > 100 {
			conf = 100
		}
		if conf < minConfidence {
			continue
		}

		// Anything other than an explicit "done" means in-progress.
		status := project.StatusInProgress
		if raw.SuggestedStatus == string(project.StatusDone) {
			status = project.StatusDone
		}

		matches = append(matches, Match{
			TodoID:          raw.TodoID,
			Title:           item.Title,
			Confidence:      conf,
			Reason:          raw.Reason,
			SuggestedStatus: status,
			AutoSelect:      conf >= autoSelectThreshold,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	a.log.Info("analysis complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)))
	return matches, nil
}

// extractEnvelope decodes the first candidate JSON object that parses
// into the match envelope.
func extractEnvelope(text string) (matchEnvelope, error) {
	for _, candidate := range findJSONCandidates(text) {
		var env matchEnvelope
		if err := json.Unmarshal([]byte(candidate), &env); err != nil {
			continue
		}
		if env.Matches != nil {
			return env, nil
		}
	}
	return matchEnvelope{}, ErrNoJSON
}

func openItems(todos []project.TodoItem) []project.TodoItem {
	var open []project.TodoItem
	for _, t := range todos {
		if t.Status != project.StatusDone {
			open = append(open, t)
		}
	}
	return open
}
