package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/beano/memory-man/internal/model"
)

func (s *SQLiteStore) ListProjects(ctx context.Context) ([]ProjectInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project, COUNT(*) AS cnt, MAX(updated_at) AS last
		FROM memories
		GROUP BY project
		ORDER BY last DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: list projects: %v", model.ErrStorage, err)
	}
	defer rows.Close()

	var projects []ProjectInfo
	for rows.Next() {
		var p ProjectInfo
		var last string
		if err := rows.Scan(&p.Name, &p.MemoryCount, &last); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", model.ErrStorage, err)
		}
		p.LastUpdated, _ = time.Parse(time.RFC3339Nano, last)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ProjectVocabulary returns each project's name and tag vocabulary, most
// recently updated first, for the classifier's project matching.
func (s *SQLiteStore) ProjectVocabulary(ctx context.Context) ([]ProjectVocab, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project, tags, updated_at FROM memories
		WHERE archived = 0
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: project vocabulary: %v", model.ErrStorage, err)
	}
	defer rows.Close()

	index := map[string]int{}
	var vocab []ProjectVocab
	for rows.Next() {
		var project, updated string
		var tagsJSON *string
		if err := rows.Scan(&project, &tagsJSON, &updated); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", model.ErrStorage, err)
		}
		i, ok := index[project]
		if !ok {
			i = len(vocab)
			index[project] = i
			v := ProjectVocab{Name: project}
			v.LastUpdated, _ = time.Parse(time.RFC3339Nano, updated)
			vocab = append(vocab, v)
		}
		if tagsJSON != nil {
			for _, tag := range decodeTags(*tagsJSON) {
				if !contains(vocab[i].Tags, tag) {
					vocab[i].Tags = append(vocab[i].Tags, tag)
				}
			}
		}
	}
	return vocab, rows.Err()
}

// Summary aggregates one project's memories.
type Summary struct {
	Project        string         `json:"project"`
	TotalMemories  int            `json:"total_memories"`
	ArchivedCount  int            `json:"archived_count"`
	Categories     map[string]int `json:"categories"`
	TopTags        []TagCount     `json:"top_tags,omitempty"`
	Recent         []model.Memory `json:"recent_memories,omitempty"`
	MostReferenced []model.Memory `json:"most_referenced,omitempty"`
	LastUpdated    time.Time      `json:"last_updated"`
}

// TagCount is one tag with its usage count.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ProjectSummary aggregates counts by category, top tags, and recency for one
// project. Unknown projects return ErrNotFound.
func (s *SQLiteStore) ProjectSummary(ctx context.Context, project string) (*Summary, error) {
	all, err := s.projectMemories(ctx, project)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, model.ErrNotFound
	}

	sum := &Summary{Project: project, Categories: map[string]int{}}
	tagCounts := map[string]int{}
	var active []model.Memory

	for _, m := range all {
		sum.TotalMemories++
		if m.Archived {
			sum.ArchivedCount++
			continue
		}
		active = append(active, m)
		sum.Categories[m.Category]++
		for _, tag := range m.Tags {
			tagCounts[tag]++
		}
		if m.UpdatedAt.After(sum.LastUpdated) {
			sum.LastUpdated = m.UpdatedAt
		}
	}

	for tag, count := range tagCounts {
		sum.TopTags = append(sum.TopTags, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(sum.TopTags, func(i, j int) bool {
		if sum.TopTags[i].Count != sum.TopTags[j].Count {
			return sum.TopTags[i].Count > sum.TopTags[j].Count
		}
		return sum.TopTags[i].Tag < sum.TopTags[j].Tag
	})
	if len(sum.TopTags) > 10 {
		sum.TopTags = sum.TopTags[:10]
	}

	sort.Slice(active, func(i, j int) bool { return active[i].CreatedAt.After(active[j].CreatedAt) })
	for i := 0; i < len(active) && i < 5; i++ {
		sum.Recent = append(sum.Recent, active[i])
	}

	sort.Slice(active, func(i, j int) bool { return active[i].AccessCount > active[j].AccessCount })
	for i := 0; i < len(active) && i < 3; i++ {
		if active[i].AccessCount == 0 {
			break
		}
		sum.MostReferenced = append(sum.MostReferenced, active[i])
	}

	return sum, nil
}

func (s *SQLiteStore) projectMemories(ctx context.Context, project string) ([]model.Memory, error) {
	rows, err := s.db.QueryContext(ctx,
		selectCols+` FROM memories WHERE project = ? ORDER BY id`, project)
	if err != nil {
		return nil, fmt.Errorf("%w: project summary: %v", model.ErrStorage, err)
	}
	defer rows.Close()
	return collectMemories(rows)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
