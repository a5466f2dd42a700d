// Package lifecycle computes archival candidates and applies cleanup. No
// transition ever happens without an explicit invocation; memories are
// archived, never deleted, so no information is lost.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/beano/memory-man/internal/model"
)

// Criteria is the archival policy. Every field is caller-overridable: zero
// values take the documented defaults, and a negative threshold disables that
// criterion entirely (a negative MinAgeDays drops the age gate; a negative
// MaxAccessCount or MaxImportance can never be satisfied).
type Criteria struct {
	Project        string `json:"project,omitempty"`
	MinAgeDays     int    `json:"min_age_days"`     // default 90
	MaxAccessCount int    `json:"max_access_count"` // default 1, candidate when accesses are below this
	MaxImportance  int    `json:"max_importance"`   // default 3, candidate when importance is at or below this
}

func (c Criteria) withDefaults() Criteria {
	if c.MinAgeDays == 0 {
		c.MinAgeDays = 90
	}
	if c.MaxAccessCount == 0 {
		c.MaxAccessCount = 1
	}
	if c.MaxImportance == 0 {
		c.MaxImportance = 3
	}
	return c
}

// Candidate is one memory the policy would archive, with the reason a human
// can review.
type Candidate struct {
	Memory model.Memory `json:"memory"`
	Reason string       `json:"reason"`
}

// Store is the storage capability the lifecycle manager needs.
type Store interface {
	ListActive(ctx context.Context, project string) ([]model.Memory, error)
	Archive(ctx context.Context, id, reason string) (*model.Memory, error)
}

// SuggestArchival evaluates every active memory against the policy: older than
// the age threshold AND (rarely accessed OR low importance). Old todo items
// qualify on age alone once they pass twice the threshold.
func SuggestArchival(ctx context.Context, s Store, c Criteria) ([]Candidate, error) {
	c = c.withDefaults()

	memories, err := s.ListActive(ctx, c.Project)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	candidates := []Candidate{}
	for _, m := range memories {
		ageDays := int(now.Sub(m.CreatedAt).Hours() / 24)
		if ageDays < c.MinAgeDays {
			continue
		}

		switch {
		case m.AccessCount < c.MaxAccessCount:
			candidates = append(candidates, Candidate{
				Memory: m,
				Reason: fmt.Sprintf("unused for %d+ days, importance %d", c.MinAgeDays, m.Importance),
			})
		case m.Importance <= c.MaxImportance:
			candidates = append(candidates, Candidate{
				Memory: m,
				Reason: fmt.Sprintf("low importance %d, older than %d days", m.Importance, c.MinAgeDays),
			})
		case m.Category == "todo" && ageDays >= 2*c.MinAgeDays:
			candidates = append(candidates, Candidate{
				Memory: m,
				Reason: fmt.Sprintf("todo item older than %d days", 2*c.MinAgeDays),
			})
		}
	}

	return candidates, nil
}

// Outcome reports the result of archiving one cleanup candidate.
type Outcome struct {
	ID       string `json:"id"`
	Reason   string `json:"reason"`
	Archived bool   `json:"archived"`
	Error    string `json:"error,omitempty"`
}

// Report summarizes a cleanup run.
type Report struct {
	DryRun     bool        `json:"dry_run"`
	Criteria   Criteria    `json:"criteria"`
	Candidates []Candidate `json:"candidates"`
	Outcomes   []Outcome   `json:"outcomes,omitempty"`
}

// Cleanup runs SuggestArchival and, unless dryRun, archives every candidate.
// A dry run mutates nothing and returns exactly what a subsequent apply on
// unchanged data would archive. Failures are reported per item; one failed
// candidate never aborts the batch.
func Cleanup(ctx context.Context, s Store, c Criteria, dryRun bool) (*Report, error) {
	candidates, err := SuggestArchival(ctx, s, c)
	if err != nil {
		return nil, err
	}

	rep := &Report{DryRun: dryRun, Criteria: c.withDefaults(), Candidates: candidates}
	if dryRun {
		return rep, nil
	}

	for _, cand := range candidates {
		outcome := Outcome{ID: cand.Memory.ID, Reason: cand.Reason}
		if _, err := s.Archive(ctx, cand.Memory.ID, cand.Reason); err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.Archived = true
		}
		rep.Outcomes = append(rep.Outcomes, outcome)
	}

	return rep, nil
}
