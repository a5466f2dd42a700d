package store

import (
	"context"
	"testing"
	"time"

	"github.com/beano/memory-man/internal/model"
)

func TestFingerprintIdentity(t *testing.T) {
	if Fingerprint("alpha", "content") != Fingerprint("Alpha", "content") {
		t.Error("fingerprint must ignore project case")
	}
	if Fingerprint("alpha", "content") == Fingerprint("alpha", "Content") {
		t.Error("fingerprint must be content-sensitive")
	}
	if Fingerprint("alpha", "content") == Fingerprint("beta", "content") {
		t.Error("fingerprint must be project-sensitive")
	}
}

func TestHasFingerprint(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Content: "known fact", Importance: 5, Project: "alpha"})

	exists, err := s.HasFingerprint(ctx, "Alpha", "known fact")
	if err != nil {
		t.Fatalf("has fingerprint: %v", err)
	}
	if !exists {
		t.Error("expected fingerprint match across project case")
	}

	exists, err = s.HasFingerprint(ctx, "alpha", "other fact")
	if err != nil {
		t.Fatalf("has fingerprint: %v", err)
	}
	if exists {
		t.Error("unexpected fingerprint match")
	}
}

func TestImportRawPreservesState(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(48 * time.Hour)
	accessed := updated.Add(time.Hour)
	archivedAt := accessed.Add(time.Hour)

	id, err := s.ImportRaw(ctx, model.Memory{
		Project: "alpha", Category: "setup", Content: "imported",
		Tags: []string{"Docker"}, Importance: 6,
		CreatedAt: created, UpdatedAt: updated,
		AccessCount: 4, LastAccessedAt: &accessed,
		Archived: true, ArchivedAt: &archivedAt, ArchivedReason: "old",
	})
	if err != nil {
		t.Fatalf("import raw: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(updated) {
		t.Errorf("timestamps not preserved: %+v", got)
	}
	// Get records an access on top of the imported count.
	if got.AccessCount != 5 {
		t.Errorf("expected access_count 5, got %d", got.AccessCount)
	}
	if !got.Archived || got.ArchivedAt == nil || !got.ArchivedAt.Equal(archivedAt) || got.ArchivedReason != "old" {
		t.Errorf("archival state not preserved: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "docker" {
		t.Errorf("tags not normalized: %v", got.Tags)
	}
}

func TestImportRawValidates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	now := time.Now().UTC()
	if _, err := s.ImportRaw(ctx, model.Memory{Content: " ", Importance: 5, CreatedAt: now, UpdatedAt: now}); !model.IsValidation(err) {
		t.Errorf("expected ValidationError for empty content, got %v", err)
	}
	if _, err := s.ImportRaw(ctx, model.Memory{Content: "x", Importance: 0, CreatedAt: now, UpdatedAt: now}); !model.IsValidation(err) {
		t.Errorf("expected ValidationError for importance 0, got %v", err)
	}
}

func TestExportScanOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Content: "a", Importance: 5, Project: "alpha", Category: "setup"})
	s.Put(ctx, PutParams{Content: "b", Importance: 5, Project: "alpha", Category: "general"})
	arch, _ := s.Put(ctx, PutParams{Content: "c", Importance: 5, Project: "alpha"})
	s.Archive(ctx, arch.ID, "r")

	all, err := s.ExportScan(ctx, ExportFilters{})
	if err != nil {
		t.Fatalf("export scan: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected archived included by default, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID > all[i].ID {
			t.Errorf("expected id order, got %q before %q", all[i-1].ID, all[i].ID)
		}
	}

	setup, err := s.ExportScan(ctx, ExportFilters{Category: "setup"})
	if err != nil {
		t.Fatalf("export scan: %v", err)
	}
	if len(setup) != 1 || setup[0].Content != "a" {
		t.Errorf("category filter: got %+v", setup)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Content: "a", Importance: 5, Project: "alpha"})
	arch, _ := s.Put(ctx, PutParams{Content: "b", Importance: 5, Project: "beta"})
	s.Archive(ctx, arch.ID, "r")

	st, err := s.Stats(ctx, "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalMemories != 2 || st.ActiveMemories != 1 || st.Archived != 1 {
		t.Errorf("unexpected counts: %+v", st)
	}
	if len(st.Projects) != 2 {
		t.Errorf("expected 2 projects, got %+v", st.Projects)
	}
}
