// Package sync exports and imports redacted memory snapshots so a sensitive
// local store can be synchronized across machines over an untrusted channel.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/beano/memory-man/internal/model"
	"github.com/beano/memory-man/internal/redact"
	"github.com/beano/memory-man/internal/store"
)

// SnapshotVersion identifies the snapshot file format.
const SnapshotVersion = "1.0"

// Snapshot is a redacted, serialized export of memories. It is derived and
// disposable, never the source of truth.
type Snapshot struct {
	Version       string           `json:"version"`
	ExportedAt    time.Time        `json:"exported_at"`
	TotalMemories int              `json:"total_memories"`
	RedactedCount int              `json:"redacted_count"`
	Memories      []SnapshotMemory `json:"memories"`
}

// SnapshotMemory is a redacted projection of one memory. The id is carried for
// reference only; import always assigns fresh ids.
type SnapshotMemory struct {
	ID             string     `json:"id"`
	Project        string     `json:"project"`
	Category       string     `json:"category"`
	Content        string     `json:"content"`
	Tags           []string   `json:"tags,omitempty"`
	Importance     int        `json:"importance"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	AccessCount    int        `json:"access_count"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	Archived       bool       `json:"archived"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
	ArchivedReason string     `json:"archived_reason,omitempty"`
	Redactions     int        `json:"redactions,omitempty"`
}

// Exporter is the store capability export needs.
type Exporter interface {
	ExportScan(ctx context.Context, f store.ExportFilters) ([]model.Memory, error)
}

// Importer is the store capability import needs.
type Importer interface {
	HasFingerprint(ctx context.Context, project, content string) (bool, error)
	ImportRaw(ctx context.Context, m model.Memory) (string, error)
}

// Export reads a consistent view of matching memories, redacts every content
// field, and assembles a snapshot.
func Export(ctx context.Context, s Exporter, f store.ExportFilters) (*Snapshot, error) {
	memories, err := s.ExportScan(ctx, f)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC(),
		Memories:   []SnapshotMemory{},
	}

	for _, m := range memories {
		content, redactions := redact.Apply(m.Content)
		snap.RedactedCount += redactions
		snap.Memories = append(snap.Memories, SnapshotMemory{
			ID:             m.ID,
			Project:        m.Project,
			Category:       m.Category,
			Content:        content,
			Tags:           m.Tags,
			Importance:     m.Importance,
			CreatedAt:      m.CreatedAt,
			UpdatedAt:      m.UpdatedAt,
			AccessCount:    m.AccessCount,
			LastAccessedAt: m.LastAccessedAt,
			Archived:       m.Archived,
			ArchivedAt:     m.ArchivedAt,
			ArchivedReason: m.ArchivedReason,
			Redactions:     redactions,
		})
	}
	snap.TotalMemories = len(snap.Memories)

	return snap, nil
}

// ItemOutcome reports the result of importing one snapshot entry.
type ItemOutcome struct {
	SnapshotID string `json:"snapshot_id"`
	NewID      string `json:"new_id,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Report summarizes an import.
type Report struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Items    []ItemOutcome `json:"items"`
}

// Import merges snapshot entries into the store. Entries whose project+content
// fingerprint already exists are skipped, which makes import idempotent.
// Placeholders are imported verbatim; category, tags, importance, and
// timestamps come from the snapshot, never re-derived. Failures are reported
// per item and do not abort the batch.
func Import(ctx context.Context, s Importer, snap *Snapshot) (*Report, error) {
	rep := &Report{Items: []ItemOutcome{}}

	for _, sm := range snap.Memories {
		outcome := ItemOutcome{SnapshotID: sm.ID}

		exists, err := s.HasFingerprint(ctx, sm.Project, sm.Content)
		if err != nil {
			outcome.Error = err.Error()
			rep.Failed++
			rep.Items = append(rep.Items, outcome)
			continue
		}
		if exists {
			outcome.Skipped = true
			rep.Skipped++
			rep.Items = append(rep.Items, outcome)
			continue
		}

		id, err := s.ImportRaw(ctx, model.Memory{
			Project:        sm.Project,
			Category:       sm.Category,
			Content:        sm.Content,
			Tags:           sm.Tags,
			Importance:     sm.Importance,
			CreatedAt:      sm.CreatedAt,
			UpdatedAt:      sm.UpdatedAt,
			AccessCount:    sm.AccessCount,
			LastAccessedAt: sm.LastAccessedAt,
			Archived:       sm.Archived,
			ArchivedAt:     sm.ArchivedAt,
			ArchivedReason: sm.ArchivedReason,
		})
		if err != nil {
			outcome.Error = err.Error()
			rep.Failed++
		} else {
			outcome.NewID = id
			rep.Imported++
		}
		rep.Items = append(rep.Items, outcome)
	}

	return rep, nil
}

// WriteFile writes the snapshot as indented JSON, rewritten whole, so exports
// diff cleanly under version control.
func WriteFile(path string, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadFile loads a snapshot file.
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.Version == "" {
		return nil, errors.New("snapshot missing version")
	}
	return &snap, nil
}
