package store

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/beano/memory-man/internal/model"
)

// SuggestParams holds parameters for related-memory suggestions.
type SuggestParams struct {
	Context string // current task or problem context
	Project string // project to search first
	Limit   int    // target result count
}

// Suggestion is a scored memory with its origin relative to the project.
type Suggestion struct {
	model.Memory
	Score        float64 `json:"score"`
	CrossProject bool    `json:"cross_project"`
}

// SuggestRelated finds memories relevant to the given context. Phase 1 searches
// within the project; if that yields fewer than the target count, phase 2
// broadens to all projects. Cross-project hits always rank below same-project
// hits regardless of raw score.
func (s *SQLiteStore) SuggestRelated(ctx context.Context, p SuggestParams) ([]Suggestion, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 10
	}

	// Overfetch candidates and rank them here: the context is free text, so
	// relevance is per-word overlap, not a whole-string substring match.
	same, err := s.Query(ctx, QueryParams{
		Project: p.Project,
		Limit:   limit * 5,
	})
	if err != nil {
		return nil, err
	}

	suggestions := scoreMemories(same, p.Context, false)

	if len(suggestions) < limit && p.Project != "" {
		broad, err := s.Query(ctx, QueryParams{
			Limit: limit * 5,
		})
		if err != nil {
			return nil, err
		}
		var cross []model.Memory
		for _, m := range broad {
			if !strings.EqualFold(m.Project, p.Project) {
				cross = append(cross, m)
			}
		}
		suggestions = append(suggestions, scoreMemories(cross, p.Context, true)...)
	}

	// Same-project first, then by score; ties broken by id for determinism.
	sort.Slice(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.CrossProject != b.CrossProject {
			return !a.CrossProject
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.ID < b.ID
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	ids := make([]string, len(suggestions))
	for i, sg := range suggestions {
		ids[i] = sg.ID
	}
	if err := s.Touch(ctx, ids...); err != nil {
		return nil, err
	}

	return suggestions, nil
}

// scoreMemories ranks candidates by keyword overlap with the context, recency
// (exponential decay, ~7 day half-life), importance, and access frequency.
func scoreMemories(memories []model.Memory, context string, crossProject bool) []Suggestion {
	words := contextWords(context)
	now := time.Now()

	out := make([]Suggestion, 0, len(memories))
	for _, m := range memories {
		overlap := keywordOverlap(words, m)
		if len(words) > 0 && overlap == 0 {
			continue
		}

		age := now.Sub(m.UpdatedAt).Hours() / 24.0
		recency := math.Exp(-0.1 * age)

		importance := float64(m.Importance) / float64(model.ImportanceMax)

		accessFreq := 0.0
		if m.AccessCount > 0 {
			accessFreq = math.Log(float64(m.AccessCount)+1) / math.Log(100)
			if accessFreq > 1 {
				accessFreq = 1
			}
		}

		score := overlap*0.4 + recency*0.2 + importance*0.2 + accessFreq*0.2
		out = append(out, Suggestion{
			Memory:       m,
			Score:        math.Round(score*100) / 100,
			CrossProject: crossProject,
		})
	}
	return out
}

func contextWords(context string) []string {
	fields := strings.Fields(strings.ToLower(context))
	var words []string
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()")
		if len(f) >= 3 {
			words = append(words, f)
		}
	}
	return words
}

func keywordOverlap(words []string, m model.Memory) float64 {
	if len(words) == 0 {
		return 0
	}
	haystack := strings.ToLower(m.Content + " " + strings.Join(m.Tags, " "))
	hits := 0
	for _, w := range words {
		if strings.Contains(haystack, w) {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}
