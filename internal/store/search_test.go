package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/beano/memory-man/internal/model"
)

// mustQuery fails the test on a query error so storage regressions surface at
// their source, not as downstream count mismatches.
func mustQuery(t *testing.T, s *SQLiteStore, p QueryParams) []model.Memory {
	t.Helper()
	results, err := s.Query(context.Background(), p)
	if err != nil {
		t.Fatalf("query %+v: %v", p, err)
	}
	return results
}

func TestQueryFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Content: "redis cache layer", Importance: 5, Project: "alpha", Category: "architecture", Tags: []string{"redis"}})
	s.Put(ctx, PutParams{Content: "postgres migration", Importance: 5, Project: "alpha", Category: "setup"})
	s.Put(ctx, PutParams{Content: "redis pipeline tuning", Importance: 5, Project: "beta", Tags: []string{"redis"}})

	byProject := mustQuery(t, s, QueryParams{Project: "alpha"})
	if len(byProject) != 2 {
		t.Errorf("project filter: expected 2, got %d", len(byProject))
	}

	byCategory := mustQuery(t, s, QueryParams{Category: "setup"})
	if len(byCategory) != 1 || byCategory[0].Content != "postgres migration" {
		t.Errorf("category filter: got %+v", byCategory)
	}

	byTag := mustQuery(t, s, QueryParams{Tags: []string{"Redis"}})
	if len(byTag) != 2 {
		t.Errorf("tag filter (case-insensitive): expected 2, got %d", len(byTag))
	}

	both := mustQuery(t, s, QueryParams{Project: "alpha", Tags: []string{"redis"}})
	if len(both) != 1 {
		t.Errorf("combined filters: expected 1, got %d", len(both))
	}
}

func TestQueryNoTextNoFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Content: "only one", Importance: 5})

	// A query with neither text nor filters must succeed and rank by
	// importance and recency alone.
	results, err := s.Query(ctx, QueryParams{})
	if err != nil {
		t.Fatalf("filterless query: %v", err)
	}
	if len(results) != 1 || results[0].Content != "only one" {
		t.Errorf("expected the stored memory, got %+v", results)
	}
}

func TestQueryTextSubstring(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Content: "Fixed CORS by adding allowed origins", Importance: 5})
	s.Put(ctx, PutParams{Content: "database connection pooling", Importance: 5})

	hits := mustQuery(t, s, QueryParams{Text: "cors"})
	if len(hits) != 1 {
		t.Fatalf("expected 1 case-insensitive substring hit, got %d", len(hits))
	}
}

func TestQueryImportanceOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Content: "low", Importance: 2})
	s.Put(ctx, PutParams{Content: "high", Importance: 9})
	s.Put(ctx, PutParams{Content: "mid", Importance: 5})

	results := mustQuery(t, s, QueryParams{})
	if len(results) != 3 {
		t.Fatalf("expected 3, got %d", len(results))
	}
	for _, want := range []struct {
		i       int
		content string
	}{{0, "high"}, {1, "mid"}, {2, "low"}} {
		if results[want.i].Content != want.content {
			t.Errorf("position %d: expected %q, got %q", want.i, want.content, results[want.i].Content)
		}
	}
}

func TestQueryExactTagBoost(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// High importance but only a substring match on content.
	s.Put(ctx, PutParams{Content: "misc notes about cors behavior", Importance: 9})
	// Lower importance but exact tag match: must rank first.
	s.Put(ctx, PutParams{Content: "origin allowlist for cors", Importance: 3, Tags: []string{"cors"}})

	results := mustQuery(t, s, QueryParams{Text: "cors"})
	if len(results) != 2 {
		t.Fatalf("expected 2, got %d", len(results))
	}
	if results[0].Content != "origin allowlist for cors" {
		t.Errorf("expected exact tag match first, got %q", results[0].Content)
	}
}

func TestQueryExactCategoryBoost(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Content: "setup was painful", Importance: 9, Category: "general"})
	s.Put(ctx, PutParams{Content: "dev environment setup steps", Importance: 3, Category: "setup"})

	results := mustQuery(t, s, QueryParams{Text: "setup"})
	if len(results) != 2 {
		t.Fatalf("expected 2, got %d", len(results))
	}
	if results[0].Category != "setup" {
		t.Errorf("expected category match first, got %+v", results[0])
	}
}

func TestQueryDefaultLimit(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"), Options{SearchLimit: 20})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer s.Close()

	for i := 0; i < 25; i++ {
		if _, err := s.Put(ctx, PutParams{Content: fmt.Sprintf("memory %d", i), Importance: 5}); err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
	}

	// The default limit applies even to a filterless query.
	results := mustQuery(t, s, QueryParams{})
	if len(results) != 20 {
		t.Errorf("expected default limit 20, got %d", len(results))
	}

	five := mustQuery(t, s, QueryParams{Limit: 5})
	if len(five) != 5 {
		t.Errorf("expected 5, got %d", len(five))
	}
}

func TestQueryArchivedExclusion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, _ := s.Put(ctx, PutParams{Content: "live", Importance: 5})
	b, _ := s.Put(ctx, PutParams{Content: "buried", Importance: 5})
	s.Archive(ctx, b.ID, "old")

	results := mustQuery(t, s, QueryParams{})
	if len(results) != 1 || results[0].ID != a.ID {
		t.Errorf("expected only active memory, got %+v", results)
	}

	all := mustQuery(t, s, QueryParams{IncludeArchived: true})
	if len(all) != 2 {
		t.Errorf("expected 2 with include_archived, got %d", len(all))
	}
}

func TestSearchRecordsAccess(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Content: "touch me", Importance: 5})

	if _, err := s.Search(ctx, QueryParams{Text: "touch"}); err != nil {
		t.Fatalf("search: %v", err)
	}

	// Query alone must not bump the counter; Search must have.
	after := mustQuery(t, s, QueryParams{Text: "touch"})
	if len(after) != 1 {
		t.Fatalf("expected 1, got %d", len(after))
	}
	if after[0].AccessCount != 1 {
		t.Errorf("expected access_count 1 after search, got %d", after[0].AccessCount)
	}
}
