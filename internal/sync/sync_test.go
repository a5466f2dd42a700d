package sync

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/beano/memory-man/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), store.Options{})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestExportRedacts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, store.PutParams{
		Content:    "aws key AKIA1234567890ABCDEF for deploys",
		Importance: 7, Project: "infra", Category: "setup", Tags: []string{"aws"},
	})
	s.Put(ctx, store.PutParams{Content: "plain note", Importance: 5, Project: "infra"})

	snap, err := Export(ctx, s, store.ExportFilters{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if snap.Version != SnapshotVersion {
		t.Errorf("expected version %q, got %q", SnapshotVersion, snap.Version)
	}
	if snap.TotalMemories != 2 {
		t.Errorf("expected 2 memories, got %d", snap.TotalMemories)
	}
	if snap.RedactedCount != 1 {
		t.Errorf("expected 1 redaction, got %d", snap.RedactedCount)
	}

	for _, m := range snap.Memories {
		if strings.Contains(m.Content, "AKIA1234567890ABCDEF") {
			t.Errorf("secret leaked into snapshot: %q", m.Content)
		}
	}
}

func TestExportFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, store.PutParams{Content: "a", Importance: 5, Project: "alpha"})
	s.Put(ctx, store.PutParams{Content: "b", Importance: 5, Project: "beta"})
	arch, _ := s.Put(ctx, store.PutParams{Content: "c", Importance: 5, Project: "alpha"})
	s.Archive(ctx, arch.ID, "r")

	byProject, err := Export(ctx, s, store.ExportFilters{Project: "alpha"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if byProject.TotalMemories != 2 {
		t.Errorf("project filter: expected 2 (archived included by default), got %d", byProject.TotalMemories)
	}

	activeOnly, err := Export(ctx, s, store.ExportFilters{Project: "alpha", ExcludeArchived: true})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if activeOnly.TotalMemories != 1 {
		t.Errorf("exclude_archived: expected 1, got %d", activeOnly.TotalMemories)
	}
}

func TestImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	dst := newTestStore(t)

	orig, _ := src.Put(ctx, store.PutParams{
		Content: "token Bearer abcdefghij1234567890XYZ in the header",
		Project: "alpha", Category: "bug_fix", Tags: []string{"auth"}, Importance: 8,
	})
	arch, _ := src.Put(ctx, store.PutParams{Content: "retired note", Importance: 3, Project: "alpha"})
	src.Archive(ctx, arch.ID, "stale")

	snap, err := Export(ctx, src, store.ExportFilters{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	rep, err := Import(ctx, dst, snap)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if rep.Imported != 2 || rep.Skipped != 0 || rep.Failed != 0 {
		t.Fatalf("expected 2 imported, got %+v", rep)
	}

	// Fresh ids, never the snapshot's.
	for _, item := range rep.Items {
		if item.NewID == "" || item.NewID == item.SnapshotID {
			t.Errorf("expected fresh id, got %+v", item)
		}
	}

	all, err := dst.Query(ctx, store.QueryParams{IncludeArchived: true})
	if err != nil {
		t.Fatalf("query destination: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 in destination, got %d", len(all))
	}

	found := false
	for _, m := range all {
		if m.Category != "bug_fix" {
			continue
		}
		found = true
		// Placeholder imported verbatim, metadata preserved from the snapshot.
		if !strings.Contains(m.Content, "[BEARER_TOKEN_REDACTED]") {
			t.Errorf("expected placeholder content, got %q", m.Content)
		}
		if m.Importance != 8 || len(m.Tags) != 1 || m.Tags[0] != "auth" {
			t.Errorf("metadata not preserved: %+v", m)
		}
		if !m.CreatedAt.Equal(orig.CreatedAt) || !m.UpdatedAt.Equal(orig.UpdatedAt) {
			t.Errorf("timestamps not preserved: %v/%v vs %v/%v",
				m.CreatedAt, m.UpdatedAt, orig.CreatedAt, orig.UpdatedAt)
		}
	}
	if !found {
		t.Fatal("bug_fix memory missing from destination")
	}

	// Archived state survives the round trip.
	archCount := 0
	for _, m := range all {
		if m.Archived {
			archCount++
			if m.ArchivedReason != "stale" || m.ArchivedAt == nil {
				t.Errorf("archival state not preserved: %+v", m)
			}
		}
	}
	if archCount != 1 {
		t.Errorf("expected 1 archived, got %d", archCount)
	}
}

func TestImportIdempotent(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	dst := newTestStore(t)

	src.Put(ctx, store.PutParams{Content: "one", Importance: 5, Project: "alpha"})
	src.Put(ctx, store.PutParams{Content: "two", Importance: 5, Project: "alpha"})

	snap, err := Export(ctx, src, store.ExportFilters{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	first, err := Import(ctx, dst, snap)
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if first.Imported != 2 {
		t.Fatalf("expected 2 imported, got %+v", first)
	}

	second, err := Import(ctx, dst, snap)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.Imported != 0 || second.Skipped != 2 {
		t.Errorf("expected all skipped on re-import, got %+v", second)
	}

	all, err := dst.Query(ctx, store.QueryParams{IncludeArchived: true})
	if err != nil {
		t.Fatalf("query destination: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("re-import changed the store: %d memories", len(all))
	}
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.Put(ctx, store.PutParams{Content: "persisted", Importance: 5, Project: "alpha"})

	snap, err := Export(ctx, s, store.ExportFilters{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := WriteFile(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if loaded.Version != snap.Version || loaded.TotalMemories != snap.TotalMemories {
		t.Errorf("header changed: %+v vs %+v", loaded, snap)
	}
	if len(loaded.Memories) != 1 || loaded.Memories[0].Content != "persisted" {
		t.Errorf("memories changed: %+v", loaded.Memories)
	}
	if !loaded.ExportedAt.Equal(snap.ExportedAt) {
		t.Errorf("exported_at changed: %v vs %v", loaded.ExportedAt, snap.ExportedAt)
	}
}

func TestReadFileRejectsVersionless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"memories": []}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Error("expected error for snapshot without version")
	}
}

func TestExportEmptyStore(t *testing.T) {
	s := newTestStore(t)
	snap, err := Export(context.Background(), s, store.ExportFilters{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if snap.TotalMemories != 0 || len(snap.Memories) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
	if snap.ExportedAt.IsZero() || time.Since(snap.ExportedAt) > time.Minute {
		t.Errorf("unexpected exported_at: %v", snap.ExportedAt)
	}
}
