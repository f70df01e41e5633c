package matcher

import (
	"sort"
	"strings"

	"vibedocs/internal/project"
)

// sharedKeywords are development terms, in both Korean and English
// spellings, whose co-occurrence in a work description and a TODO is a
// stronger signal than generic word overlap.
var sharedKeywords = []string{
	"설정", "설치", "구현", "완료", "추가", "생성", "작성",
	"setup", "install", "implement", "complete", "add", "create", "write",
	"api", "ui", "component", "컴포넌트", "page", "페이지", "test", "테스트",
}

// MatchHeuristic scores open TODO items against a work description
// without calling the LLM. It is fully deterministic: identical inputs
// always yield identical matches, which makes it the offline fallback
// when the model's reply cannot be parsed or no key is configured.
//
// Scoring: every word of the TODO's title+description longer than two
// characters that appears in the lower-cased work description counts
// one (repeated words count per occurrence); each shared development
// keyword present in both texts counts two more. The confidence is
// 40 + 15 per count, capped at 95 so a heuristic match never outranks
// a certain LLM match.
func MatchHeuristic(todos []project.TodoItem, workDescription string) []Match {
	input := strings.ToLower(workDescription)

	var matches []Match
	for _, t := range openItems(todos) {
		todoText := strings.ToLower(t.Title + " " + t.Description)

		count := 0
		for _, w := range splitWords(todoText) {
			if strings.Contains(input, w) {
				count++
			}
		}
		for _, kw := range sharedKeywords {
			if strings.Contains(input, kw) && strings.Contains(todoText, kw) {
				count += 2
			}
		}
		if count == 0 {
			continue
		}

		conf := 40 + count*15
		if conf > 95 {
			conf = 95
		}
		status := project.StatusInProgress
		if conf >= autoSelectThreshold {
			status = project.StatusDone
		}
		matches = append(matches, Match{
			TodoID:          t.ID,
			Title:           t.Title,
			Confidence:      conf,
			Reason:          "Keyword overlap with the work description",
			SuggestedStatus: status,
			AutoSelect:      conf >= autoSelectThreshold,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	if len(matches) > 5 {
		matches = matches[:5]
	}
	return matches
}

func splitWords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ',' || r == '.' || r == ':' || r == ';'
	})
	var words []string
	for _, f := range fields {
		if len([]rune(f)) > 2 {
			words = append(words, f)
		}
	}
	return words
}
