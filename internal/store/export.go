package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/beano/memory-man/internal/model"
)

// ExportFilters select which memories an export covers. Archived memories are
// included by default.
type ExportFilters struct {
	Project         string
	Category        string
	ExcludeArchived bool
}

// ExportScan returns all matching memories in id order. A single query gives
// the export a consistent point-in-time view.
func (s *SQLiteStore) ExportScan(ctx context.Context, f ExportFilters) ([]model.Memory, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if f.Project != "" {
		where = append(where, "project = ?")
		args = append(args, f.Project)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.ExcludeArchived {
		where = append(where, "archived = 0")
	}

	rows, err := s.db.QueryContext(ctx,
		selectCols+` FROM memories WHERE `+strings.Join(where, " AND ")+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: export scan: %v", model.ErrStorage, err)
	}
	defer rows.Close()
	return collectMemories(rows)
}

// HasFingerprint reports whether a memory with the same project+content
// identity already exists.
func (s *SQLiteStore) HasFingerprint(ctx context.Context, project, content string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memories WHERE fingerprint = ?`,
		Fingerprint(project, content)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("%w: fingerprint lookup: %v", model.ErrStorage, err)
	}
	return n > 0, nil
}

// ImportRaw inserts a memory preserving its timestamps, counters, and lifecycle
// state. A fresh id is always assigned; ids are never reused across stores.
func (s *SQLiteStore) ImportRaw(ctx context.Context, m model.Memory) (string, error) {
	if strings.TrimSpace(m.Content) == "" {
		return "", model.Validationf("content", "must not be empty")
	}
	if m.Importance < model.ImportanceMin || m.Importance > model.ImportanceMax {
		return "", model.Validationf("importance", "must be in [%d,%d], got %d",
			model.ImportanceMin, model.ImportanceMax, m.Importance)
	}
	if m.Project == "" {
		m.Project = model.DefaultProject
	}
	if m.Category == "" {
		m.Category = model.DefaultCategory
	}

	id := s.newID()

	var tagsJSON *string
	if tags := NormalizeTags(m.Tags); len(tags) > 0 {
		b, _ := json.Marshal(tags)
		v := string(b)
		tagsJSON = &v
	}

	var lastAccessed, archivedAt, archivedReason *string
	if m.LastAccessedAt != nil {
		v := m.LastAccessedAt.Format(time.RFC3339Nano)
		lastAccessed = &v
	}
	archived := 0
	if m.Archived {
		archived = 1
		if m.ArchivedAt != nil {
			v := m.ArchivedAt.Format(time.RFC3339Nano)
			archivedAt = &v
		}
		if m.ArchivedReason != "" {
			archivedReason = &m.ArchivedReason
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (id, project, category, content, tags, importance,
		                       created_at, updated_at, access_count, last_accessed_at,
		                       archived, archived_at, archived_reason, fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, m.Project, m.Category, m.Content, tagsJSON, m.Importance,
		m.CreatedAt.Format(time.RFC3339Nano), m.UpdatedAt.Format(time.RFC3339Nano),
		m.AccessCount, lastAccessed, archived, archivedAt, archivedReason,
		Fingerprint(m.Project, m.Content))
	if err != nil {
		return "", fmt.Errorf("%w: import insert: %v", model.ErrStorage, err)
	}
	return id, nil
}
