package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beano/memory-man/internal/model"
)

func TestListProjects(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Content: "a1", Importance: 5, Project: "alpha"})
	s.Put(ctx, PutParams{Content: "a2", Importance: 5, Project: "alpha"})
	time.Sleep(5 * time.Millisecond)
	s.Put(ctx, PutParams{Content: "b1", Importance: 5, Project: "beta"})

	projects, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	// Most recently updated first.
	if projects[0].Name != "beta" || projects[1].Name != "alpha" {
		t.Errorf("expected recency order beta, alpha; got %+v", projects)
	}
	if projects[1].MemoryCount != 2 {
		t.Errorf("expected alpha count 2, got %d", projects[1].MemoryCount)
	}
}

func TestProjectSummary(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Content: "fix 1", Importance: 5, Project: "alpha", Category: "bug_fix", Tags: []string{"api", "auth"}})
	s.Put(ctx, PutParams{Content: "fix 2", Importance: 5, Project: "alpha", Category: "bug_fix", Tags: []string{"api"}})
	s.Put(ctx, PutParams{Content: "layout", Importance: 5, Project: "alpha", Category: "architecture"})
	old, _ := s.Put(ctx, PutParams{Content: "stale", Importance: 5, Project: "alpha"})
	s.Archive(ctx, old.ID, "r")
	s.Put(ctx, PutParams{Content: "elsewhere", Importance: 5, Project: "beta"})

	sum, err := s.ProjectSummary(ctx, "alpha")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalMemories != 4 || sum.ArchivedCount != 1 {
		t.Errorf("expected 4 total / 1 archived, got %d / %d", sum.TotalMemories, sum.ArchivedCount)
	}
	if sum.Categories["bug_fix"] != 2 || sum.Categories["architecture"] != 1 {
		t.Errorf("unexpected category counts: %v", sum.Categories)
	}
	// Archived memories do not contribute to category counts.
	if sum.Categories["general"] != 0 {
		t.Errorf("archived memory leaked into categories: %v", sum.Categories)
	}
	if len(sum.TopTags) == 0 || sum.TopTags[0].Tag != "api" || sum.TopTags[0].Count != 2 {
		t.Errorf("expected api as top tag with count 2, got %+v", sum.TopTags)
	}
	if len(sum.Recent) != 3 {
		t.Errorf("expected 3 recent active memories, got %d", len(sum.Recent))
	}
	// No access yet, so nothing is most-referenced.
	if len(sum.MostReferenced) != 0 {
		t.Errorf("expected no most-referenced without accesses, got %+v", sum.MostReferenced)
	}
}

func TestProjectSummaryMostReferenced(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, _ := s.Put(ctx, PutParams{Content: "hot", Importance: 5, Project: "alpha"})
	s.Put(ctx, PutParams{Content: "cold", Importance: 5, Project: "alpha"})
	s.Get(ctx, a.ID)
	s.Get(ctx, a.ID)

	sum, err := s.ProjectSummary(ctx, "alpha")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(sum.MostReferenced) != 1 || sum.MostReferenced[0].ID != a.ID {
		t.Errorf("expected only accessed memory referenced, got %+v", sum.MostReferenced)
	}
}

func TestProjectSummaryNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ProjectSummary(context.Background(), "ghost")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectVocabulary(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Content: "a", Importance: 5, Project: "alpha", Tags: []string{"redis", "api"}})
	s.Put(ctx, PutParams{Content: "b", Importance: 5, Project: "alpha", Tags: []string{"api", "docker"}})
	arch, _ := s.Put(ctx, PutParams{Content: "c", Importance: 5, Project: "gamma", Tags: []string{"rust"}})
	s.Archive(ctx, arch.ID, "r")

	vocab, err := s.ProjectVocabulary(ctx)
	if err != nil {
		t.Fatalf("vocabulary: %v", err)
	}
	if len(vocab) != 1 {
		t.Fatalf("expected archived project excluded, got %+v", vocab)
	}
	tags := vocab[0].Tags
	if len(tags) != 3 || !contains(tags, "redis") || !contains(tags, "api") || !contains(tags, "docker") {
		t.Errorf("expected deduplicated tag union, got %v", tags)
	}
}
