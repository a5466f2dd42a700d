package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/beano/memory-man/internal/model"
)

// Options tune store-side validation and query defaults.
type Options struct {
	MaxContentSize int      // max characters per memory content
	Categories     []string // allowed category values
	SearchLimit    int      // default query limit
}

func (o Options) withDefaults() Options {
	if o.MaxContentSize <= 0 {
		o.MaxContentSize = 10000
	}
	if len(o.Categories) == 0 {
		o.Categories = model.BuiltinCategories
	}
	if o.SearchLimit <= 0 {
		o.SearchLimit = 20
	}
	return o
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	opts    Options
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string, opts Options) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		opts:    opts.withDefaults(),
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id               TEXT PRIMARY KEY,
		project          TEXT NOT NULL COLLATE NOCASE,
		category         TEXT NOT NULL,
		content          TEXT NOT NULL,
		tags             TEXT,
		importance       INTEGER NOT NULL DEFAULT 5,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		access_count     INTEGER NOT NULL DEFAULT 0,
		last_accessed_at TEXT,
		archived         INTEGER NOT NULL DEFAULT 0,
		archived_at      TEXT,
		archived_reason  TEXT,
		fingerprint      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_memories_project ON memories(project, archived);
	CREATE INDEX IF NOT EXISTS idx_memories_category ON memories(project, category);
	CREATE INDEX IF NOT EXISTS idx_memories_importance ON memories(importance);
	CREATE INDEX IF NOT EXISTS idx_memories_updated ON memories(updated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_memories_fingerprint ON memories(fingerprint);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Fingerprint is the content identity used for import dedup: SHA-256 of the
// lowercased project, a NUL separator, and the content verbatim.
func Fingerprint(project, content string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(project)))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// NormalizeTags lower-cases, trims, and deduplicates tags, preserving the
// first-seen order.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func decodeTags(tagsJSON string) []string {
	var tags []string
	json.Unmarshal([]byte(tagsJSON), &tags)
	return tags
}

func (s *SQLiteStore) validCategory(c string) bool {
	for _, allowed := range s.opts.Categories {
		if allowed == c {
			return true
		}
	}
	return false
}

func (s *SQLiteStore) validatePut(p *PutParams) error {
	if strings.TrimSpace(p.Content) == "" {
		return model.Validationf("content", "must not be empty")
	}
	if len(p.Content) > s.opts.MaxContentSize {
		return model.Validationf("content", "exceeds %d characters", s.opts.MaxContentSize)
	}
	if p.Importance < model.ImportanceMin || p.Importance > model.ImportanceMax {
		return model.Validationf("importance", "must be in [%d,%d], got %d",
			model.ImportanceMin, model.ImportanceMax, p.Importance)
	}
	if p.Project == "" {
		p.Project = model.DefaultProject
	}
	if p.Category == "" {
		p.Category = model.DefaultCategory
	}
	if !s.validCategory(p.Category) {
		return model.Validationf("category", "unknown category %q", p.Category)
	}
	p.Tags = NormalizeTags(p.Tags)
	return nil
}

func (s *SQLiteStore) Put(ctx context.Context, p PutParams) (*model.Memory, error) {
	if err := s.validatePut(&p); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := s.newID()

	var tagsJSON *string
	if len(p.Tags) > 0 {
		b, _ := json.Marshal(p.Tags)
		v := string(b)
		tagsJSON = &v
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (id, project, category, content, tags, importance,
		                       created_at, updated_at, access_count, archived, fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?)`,
		id, p.Project, p.Category, p.Content, tagsJSON, p.Importance,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
		Fingerprint(p.Project, p.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: insert memory: %v", model.ErrStorage, err)
	}

	return &model.Memory{
		ID:         id,
		Project:    p.Project,
		Category:   p.Category,
		Content:    p.Content,
		Tags:       p.Tags,
		Importance: p.Importance,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Memory, error) {
	m, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Touch(ctx, id); err != nil {
		return nil, err
	}
	m.AccessCount++
	now := time.Now().UTC()
	m.LastAccessedAt = &now
	return m, nil
}

func (s *SQLiteStore) getByID(ctx context.Context, id string) (*model.Memory, error) {
	row := s.db.QueryRowContext(ctx, selectCols+` FROM memories WHERE id = ?`, id)
	m, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get: %v", model.ErrStorage, err)
	}
	return &m, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, p UpdateParams) (*model.Memory, error) {
	if p.Content != nil {
		if strings.TrimSpace(*p.Content) == "" {
			return nil, model.Validationf("content", "must not be empty")
		}
		if len(*p.Content) > s.opts.MaxContentSize {
			return nil, model.Validationf("content", "exceeds %d characters", s.opts.MaxContentSize)
		}
	}
	if p.Importance != nil && (*p.Importance < model.ImportanceMin || *p.Importance > model.ImportanceMax) {
		return nil, model.Validationf("importance", "must be in [%d,%d], got %d",
			model.ImportanceMin, model.ImportanceMax, *p.Importance)
	}
	if p.Category != nil && !s.validCategory(*p.Category) {
		return nil, model.Validationf("category", "unknown category %q", *p.Category)
	}
	if p.Project != nil && strings.TrimSpace(*p.Project) == "" {
		return nil, model.Validationf("project", "must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", model.ErrStorage, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectCols+` FROM memories WHERE id = ?`, id)
	m, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update: %v", model.ErrStorage, err)
	}

	if p.Project != nil {
		m.Project = *p.Project
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.Content != nil {
		m.Content = *p.Content
	}
	if p.Tags != nil {
		m.Tags = NormalizeTags(*p.Tags)
	}
	if p.Importance != nil {
		m.Importance = *p.Importance
	}
	m.UpdatedAt = time.Now().UTC()

	var tagsJSON *string
	if len(m.Tags) > 0 {
		b, _ := json.Marshal(m.Tags)
		v := string(b)
		tagsJSON = &v
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE memories SET project = ?, category = ?, content = ?, tags = ?,
		        importance = ?, updated_at = ?, fingerprint = ?
		 WHERE id = ?`,
		m.Project, m.Category, m.Content, tagsJSON, m.Importance,
		m.UpdatedAt.Format(time.RFC3339Nano), Fingerprint(m.Project, m.Content), id)
	if err != nil {
		return nil, fmt.Errorf("%w: update: %v", model.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", model.ErrStorage, err)
	}
	return &m, nil
}

func (s *SQLiteStore) Archive(ctx context.Context, id, reason string) (*model.Memory, error) {
	return s.setArchived(ctx, id, true, reason)
}

func (s *SQLiteStore) Unarchive(ctx context.Context, id string) (*model.Memory, error) {
	return s.setArchived(ctx, id, false, "")
}

// setArchived flips the archival state. It deliberately leaves updated_at
// untouched so an archive/unarchive round trip restores the memory exactly.
func (s *SQLiteStore) setArchived(ctx context.Context, id string, archived bool, reason string) (*model.Memory, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", model.ErrStorage, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectCols+` FROM memories WHERE id = ?`, id)
	m, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: archive: %v", model.ErrStorage, err)
	}
	if m.Archived == archived {
		return nil, model.ErrAlreadyInState
	}

	if archived {
		now := time.Now().UTC()
		m.Archived = true
		m.ArchivedAt = &now
		m.ArchivedReason = reason
		_, err = tx.ExecContext(ctx,
			`UPDATE memories SET archived = 1, archived_at = ?, archived_reason = ? WHERE id = ?`,
			now.Format(time.RFC3339Nano), reason, id)
	} else {
		m.Archived = false
		m.ArchivedAt = nil
		m.ArchivedReason = ""
		_, err = tx.ExecContext(ctx,
			`UPDATE memories SET archived = 0, archived_at = NULL, archived_reason = NULL WHERE id = ?`,
			id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: archive: %v", model.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", model.ErrStorage, err)
	}
	return &m, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete: %v", model.ErrStorage, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Touch(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, now)
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE memories SET access_count = access_count + 1, last_accessed_at = ?
		 WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("%w: touch: %v", model.ErrStorage, err)
	}
	return nil
}

func (s *SQLiteStore) ListActive(ctx context.Context, project string) ([]model.Memory, error) {
	where := []string{"archived = 0"}
	args := []interface{}{}
	if project != "" {
		where = append(where, "project = ?")
		args = append(args, project)
	}
	rows, err := s.db.QueryContext(ctx,
		selectCols+` FROM memories WHERE `+strings.Join(where, " AND ")+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list active: %v", model.ErrStorage, err)
	}
	defer rows.Close()
	return collectMemories(rows)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectCols = `SELECT id, project, category, content, tags, importance,
	created_at, updated_at, access_count, last_accessed_at,
	archived, archived_at, archived_reason`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMemory(row scanner) (model.Memory, error) {
	var m model.Memory
	var tagsJSON, lastAccessed, archivedAt, archivedReason sql.NullString
	var createdAt, updatedAt string
	var archived int

	err := row.Scan(
		&m.ID, &m.Project, &m.Category, &m.Content, &tagsJSON, &m.Importance,
		&createdAt, &updatedAt, &m.AccessCount, &lastAccessed,
		&archived, &archivedAt, &archivedReason,
	)
	if err != nil {
		return m, err
	}

	m.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	m.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	if tagsJSON.Valid {
		json.Unmarshal([]byte(tagsJSON.String), &m.Tags)
	}
	if lastAccessed.Valid {
		t, _ := time.Parse(time.RFC3339Nano, lastAccessed.String)
		m.LastAccessedAt = &t
	}
	m.Archived = archived != 0
	if archivedAt.Valid {
		t, _ := time.Parse(time.RFC3339Nano, archivedAt.String)
		m.ArchivedAt = &t
	}
	if archivedReason.Valid {
		m.ArchivedReason = archivedReason.String
	}

	return m, nil
}

func collectMemories(rows *sql.Rows) ([]model.Memory, error) {
	var memories []model.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", model.ErrStorage, err)
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", model.ErrStorage, err)
	}
	return memories, nil
}
