package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/beano/memory-man/internal/classify"
	"github.com/beano/memory-man/internal/lifecycle"
	"github.com/beano/memory-man/internal/model"
	"github.com/beano/memory-man/internal/store"
	enginesync "github.com/beano/memory-man/internal/sync"
)

// result serializes v as a JSON tool result. Engine failures become tool
// errors, never protocol errors, so one bad call can't take the session down.
func (s *Server) result(v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		s.log.Warn().Err(err).Msg("tool call failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, merr := json.Marshal(v)
	if merr != nil {
		return mcp.NewToolResultError(merr.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mem, err := s.store.Put(ctx, store.PutParams{
		Project:    req.GetString("project", ""),
		Category:   req.GetString("category", ""),
		Content:    content,
		Tags:       req.GetStringSlice("tags", nil),
		Importance: req.GetInt("importance", s.cfg.DefaultImportance),
	})
	return s.result(mem, err)
}

func (s *Server) handleAutoStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	detected := classify.DetectProject(req.GetString("working_directory", ""))

	vocab, err := s.store.ProjectVocabulary(ctx)
	if err != nil {
		return s.result(nil, err)
	}
	known := make([]classify.KnownProject, len(vocab))
	for i, v := range vocab {
		known[i] = classify.KnownProject{Name: v.Name, Tags: v.Tags}
	}

	hint := ""
	if detected.Type != "unknown" {
		hint = detected.Name
	}
	cls := classify.Classify(classify.Input{
		Content:       content,
		ProjectHint:   hint,
		KnownProjects: known,
		SeedTags:      detected.SeedTags(),
	}, classify.Options{
		DefaultImportance: s.cfg.DefaultImportance,
		MaxTags:           s.cfg.MaxAutoTags,
	})

	mem, err := s.store.Put(ctx, store.PutParams{
		Project:    cls.Project,
		Category:   cls.Category,
		Content:    content,
		Tags:       cls.Tags,
		Importance: req.GetInt("importance", cls.Importance),
	})
	if err != nil {
		return s.result(nil, err)
	}

	return s.result(map[string]any{
		"memory":        mem,
		"auto_detected": cls,
		"project_info":  detected,
	}, nil)
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	results, err := s.store.Search(ctx, store.QueryParams{
		Text:            req.GetString("query", ""),
		Project:         req.GetString("project", ""),
		Category:        req.GetString("category", ""),
		Tags:            req.GetStringSlice("tags", nil),
		Limit:           req.GetInt("limit", 0),
		IncludeArchived: req.GetBool("include_archived", false),
	})
	if err != nil {
		return s.result(nil, err)
	}
	return s.result(map[string]any{"count": len(results), "memories": results}, nil)
}

func (s *Server) handleRetrieve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("memory_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mem, err := s.store.Get(ctx, id)
	return s.result(mem, err)
}

func (s *Server) handleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("memory_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := req.GetArguments()
	var p store.UpdateParams
	if _, ok := args["content"]; ok {
		v := req.GetString("content", "")
		p.Content = &v
	}
	if _, ok := args["project"]; ok {
		v := req.GetString("project", "")
		p.Project = &v
	}
	if _, ok := args["category"]; ok {
		v := req.GetString("category", "")
		p.Category = &v
	}
	if _, ok := args["tags"]; ok {
		v := req.GetStringSlice("tags", nil)
		p.Tags = &v
	}
	if _, ok := args["importance"]; ok {
		v := req.GetInt("importance", 0)
		p.Importance = &v
	}

	mem, err := s.store.Update(ctx, id, p)
	return s.result(mem, err)
}

func (s *Server) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("memory_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return s.result(nil, err)
	}
	return s.result(map[string]any{"deleted": id}, nil)
}

func (s *Server) handleListProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.store.ListProjects(ctx)
	return s.result(map[string]any{"projects": projects}, err)
}

func (s *Server) handleProjectSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := req.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sum, err := s.store.ProjectSummary(ctx, project)
	return s.result(sum, err)
}

func (s *Server) handleDetect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := classify.DetectProject(req.GetString("working_directory", ""))

	existing := 0
	if projects, err := s.store.ListProjects(ctx); err == nil {
		for _, p := range projects {
			if p.Name == info.Name {
				existing = p.MemoryCount
				break
			}
		}
	}
	return s.result(map[string]any{
		"project_info":      info,
		"existing_memories": existing,
	}, nil)
}

func (s *Server) handleSuggestRelated(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contextText, err := req.RequireString("context")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	suggestions, err := s.store.SuggestRelated(ctx, store.SuggestParams{
		Context: contextText,
		Project: req.GetString("project", ""),
		Limit:   req.GetInt("limit", 0),
	})
	if err != nil {
		return s.result(nil, err)
	}
	return s.result(map[string]any{"count": len(suggestions), "suggestions": suggestions}, nil)
}

func (s *Server) criteria(req mcp.CallToolRequest) lifecycle.Criteria {
	return lifecycle.Criteria{
		Project:        req.GetString("project", ""),
		MinAgeDays:     req.GetInt("min_age_days", 0),
		MaxAccessCount: req.GetInt("max_access_count", 0),
		MaxImportance:  req.GetInt("max_importance", 0),
	}
}

func (s *Server) handleSuggestArchival(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	candidates, err := lifecycle.SuggestArchival(ctx, s.store, s.criteria(req))
	if err != nil {
		return s.result(nil, err)
	}
	return s.result(map[string]any{"count": len(candidates), "candidates": candidates}, nil)
}

func (s *Server) handleArchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("memory_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	reason := req.GetString("reason", "manual archival")
	mem, err := s.store.Archive(ctx, id, reason)
	if errors.Is(err, model.ErrAlreadyInState) {
		return mcp.NewToolResultError("memory is already archived"), nil
	}
	return s.result(mem, err)
}

func (s *Server) handleUnarchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("memory_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mem, err := s.store.Unarchive(ctx, id)
	if errors.Is(err, model.ErrAlreadyInState) {
		return mcp.NewToolResultError("memory is not archived"), nil
	}
	return s.result(mem, err)
}

func (s *Server) handleCleanup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep, err := lifecycle.Cleanup(ctx, s.store, s.criteria(req), req.GetBool("dry_run", true))
	return s.result(rep, err)
}

func (s *Server) handleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := enginesync.Export(ctx, s.store, store.ExportFilters{
		Project:         req.GetString("project", ""),
		Category:        req.GetString("category", ""),
		ExcludeArchived: req.GetBool("exclude_archived", false),
	})
	if err != nil {
		return s.result(nil, err)
	}
	if err := enginesync.WriteFile(path, snap); err != nil {
		return s.result(nil, err)
	}
	s.log.Info().Str("path", path).Int("memories", snap.TotalMemories).
		Int("redacted", snap.RedactedCount).Msg("exported snapshot")
	return s.result(map[string]any{
		"path":           path,
		"total_memories": snap.TotalMemories,
		"redacted_count": snap.RedactedCount,
	}, nil)
}

func (s *Server) handleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := enginesync.ReadFile(path)
	if err != nil {
		return s.result(nil, err)
	}
	rep, err := enginesync.Import(ctx, s.store, snap)
	if err != nil {
		return s.result(nil, err)
	}
	s.log.Info().Str("path", path).Int("imported", rep.Imported).
		Int("skipped", rep.Skipped).Msg("imported snapshot")
	return s.result(rep, nil)
}
