package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/beano/memory-man/internal/model"
)

// Query returns memories matching the filters, ranked by exact tag/category
// match, then importance, then recency, with id as the tiebreak. The limit is
// always enforced; archived memories are excluded unless requested.
func (s *SQLiteStore) Query(ctx context.Context, p QueryParams) ([]model.Memory, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = s.opts.SearchLimit
	}

	where := []string{"1=1"}
	args := []interface{}{}

	if !p.IncludeArchived {
		where = append(where, "archived = 0")
	}
	if p.Project != "" {
		where = append(where, "project = ?")
		args = append(args, p.Project)
	}
	if p.Category != "" {
		where = append(where, "category = ?")
		args = append(args, p.Category)
	}
	for _, tag := range NormalizeTags(p.Tags) {
		where = append(where, "tags LIKE ?")
		args = append(args, `%"`+tag+`"%`)
	}
	if p.Text != "" {
		where = append(where, "content LIKE ?")
		args = append(args, "%"+p.Text+"%")
	}

	// Exact tag/category matches on the query text rank first. Without text
	// there is no boost term: a bare integer in ORDER BY is a column index to
	// SQLite, not a constant.
	order := "importance DESC, updated_at DESC, id ASC"
	if p.Text != "" {
		order = "CASE WHEN category = ? OR tags LIKE ? THEN 1 ELSE 0 END DESC, " + order
		q := strings.ToLower(p.Text)
		args = append(args, q, `%"`+q+`"%`)
	}

	query := fmt.Sprintf(
		selectCols+` FROM memories
		 WHERE %s
		 ORDER BY %s
		 LIMIT ?`,
		strings.Join(where, " AND "), order)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", model.ErrStorage, err)
	}
	defer rows.Close()

	return collectMemories(rows)
}

// Search runs Query and records an access on every returned memory.
func (s *SQLiteStore) Search(ctx context.Context, p QueryParams) ([]model.Memory, error) {
	results, err := s.Query(ctx, p)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(results))
	for i, m := range results {
		ids[i] = m.ID
	}
	if err := s.Touch(ctx, ids...); err != nil {
		return nil, err
	}
	return results, nil
}
