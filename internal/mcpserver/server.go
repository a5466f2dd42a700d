// Package mcpserver exposes the memory engine over MCP stdio. The transport
// is a thin dispatcher: it validates arguments, calls the engine packages, and
// serializes results. All logging goes to stderr; stdout carries JSON-RPC.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/beano/memory-man/internal/config"
	"github.com/beano/memory-man/internal/store"
)

// Version is the server version advertised during MCP initialization.
const Version = "1.0.0"

// Server wires the engine to an MCP stdio transport.
type Server struct {
	store *store.SQLiteStore
	cfg   config.Config
	log   zerolog.Logger
	mcp   *server.MCPServer
}

// New builds the server and registers the tool surface.
func New(s *store.SQLiteStore, cfg config.Config, log zerolog.Logger) *Server {
	srv := &Server{
		store: s,
		cfg:   cfg,
		log:   log,
		mcp:   server.NewMCPServer("memory-man", Version, server.WithToolCapabilities(false)),
	}
	srv.registerTools()
	return srv
}

// Serve runs the stdio transport until the client disconnects.
func (s *Server) Serve() error {
	s.log.Info().Str("db", s.cfg.DBPath).Msg("memory-man mcp server starting")
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("memory_store",
		mcp.WithDescription("Store a new memory with project context"),
		mcp.WithString("content", mcp.Required(), mcp.Description("The content to remember")),
		mcp.WithString("project", mcp.Description("Project name (defaults to the unfiled project)")),
		mcp.WithString("category", mcp.Description("Category: architecture, setup, bug_fix, todo, pattern, command, general")),
		mcp.WithArray("tags", mcp.Description("Optional tags"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithNumber("importance", mcp.Description("Importance level (1-10, default 5)")),
	), s.handleStore)

	s.mcp.AddTool(mcp.NewTool("memory_auto_store",
		mcp.WithDescription("Store memory with auto-detected project, category, and tags"),
		mcp.WithString("content", mcp.Required(), mcp.Description("The content to remember")),
		mcp.WithString("working_directory", mcp.Description("Directory used for project detection")),
		mcp.WithNumber("importance", mcp.Description("Importance level (1-10, defaults to the classifier's choice)")),
	), s.handleAutoStore)

	s.mcp.AddTool(mcp.NewTool("memory_search",
		mcp.WithDescription("Search memories by query, project, category, or tags"),
		mcp.WithString("query", mcp.Description("Substring to search content for")),
		mcp.WithString("project", mcp.Description("Filter by project")),
		mcp.WithString("category", mcp.Description("Filter by category")),
		mcp.WithArray("tags", mcp.Description("Filter by tags"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithNumber("limit", mcp.Description("Maximum results")),
		mcp.WithBoolean("include_archived", mcp.Description("Include archived memories (default false)")),
	), s.handleSearch)

	s.mcp.AddTool(mcp.NewTool("memory_retrieve",
		mcp.WithDescription("Retrieve a specific memory by id"),
		mcp.WithString("memory_id", mcp.Required(), mcp.Description("The memory id")),
	), s.handleRetrieve)

	s.mcp.AddTool(mcp.NewTool("memory_update",
		mcp.WithDescription("Update an existing memory"),
		mcp.WithString("memory_id", mcp.Required(), mcp.Description("The memory id")),
		mcp.WithString("content", mcp.Description("New content")),
		mcp.WithString("project", mcp.Description("New project")),
		mcp.WithString("category", mcp.Description("New category")),
		mcp.WithArray("tags", mcp.Description("New tags"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithNumber("importance", mcp.Description("New importance level")),
	), s.handleUpdate)

	s.mcp.AddTool(mcp.NewTool("memory_delete",
		mcp.WithDescription("Permanently delete a memory (irreversible; prefer archiving)"),
		mcp.WithString("memory_id", mcp.Required(), mcp.Description("The memory id")),
	), s.handleDelete)

	s.mcp.AddTool(mcp.NewTool("memory_list_projects",
		mcp.WithDescription("List all projects with memories"),
	), s.handleListProjects)

	s.mcp.AddTool(mcp.NewTool("project_summary",
		mcp.WithDescription("Aggregate counts by category, top tags, and recency for a project"),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name")),
	), s.handleProjectSummary)

	s.mcp.AddTool(mcp.NewTool("project_detect",
		mcp.WithDescription("Detect project information from a working directory"),
		mcp.WithString("working_directory", mcp.Description("Directory to analyze (defaults to the current one)")),
	), s.handleDetect)

	s.mcp.AddTool(mcp.NewTool("memory_suggest_related",
		mcp.WithDescription("Find memories related to the current task context"),
		mcp.WithString("context", mcp.Required(), mcp.Description("Current task or problem context")),
		mcp.WithString("project", mcp.Description("Project to search first")),
		mcp.WithNumber("limit", mcp.Description("Target result count")),
	), s.handleSuggestRelated)

	s.mcp.AddTool(mcp.NewTool("memory_suggest_archival",
		mcp.WithDescription("Suggest memories that could be archived"),
		mcp.WithString("project", mcp.Description("Project to analyze (all when omitted)")),
		mcp.WithNumber("min_age_days", mcp.Description("Age threshold in days (default 90)")),
		mcp.WithNumber("max_access_count", mcp.Description("Access threshold (default 1)")),
		mcp.WithNumber("max_importance", mcp.Description("Importance threshold (default 3)")),
	), s.handleSuggestArchival)

	s.mcp.AddTool(mcp.NewTool("memory_archive",
		mcp.WithDescription("Archive a memory"),
		mcp.WithString("memory_id", mcp.Required(), mcp.Description("The memory id")),
		mcp.WithString("reason", mcp.Description("Reason for archiving")),
	), s.handleArchive)

	s.mcp.AddTool(mcp.NewTool("memory_unarchive",
		mcp.WithDescription("Restore an archived memory to the active state"),
		mcp.WithString("memory_id", mcp.Required(), mcp.Description("The memory id")),
	), s.handleUnarchive)

	s.mcp.AddTool(mcp.NewTool("memory_cleanup",
		mcp.WithDescription("Archive old, unused memories matching the criteria"),
		mcp.WithString("project", mcp.Description("Project to clean up (all when omitted)")),
		mcp.WithNumber("min_age_days", mcp.Description("Age threshold in days (default 90)")),
		mcp.WithNumber("max_access_count", mcp.Description("Access threshold (default 1)")),
		mcp.WithNumber("max_importance", mcp.Description("Importance threshold (default 3)")),
		mcp.WithBoolean("dry_run", mcp.Description("Report what would change without mutating (default true)")),
	), s.handleCleanup)

	s.mcp.AddTool(mcp.NewTool("memory_export",
		mcp.WithDescription("Export memories to a redacted snapshot file safe for untrusted channels"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Snapshot file path")),
		mcp.WithString("project", mcp.Description("Filter by project")),
		mcp.WithString("category", mcp.Description("Filter by category")),
		mcp.WithBoolean("exclude_archived", mcp.Description("Leave archived memories out (default false)")),
	), s.handleExport)

	s.mcp.AddTool(mcp.NewTool("memory_import",
		mcp.WithDescription("Merge a snapshot file into the store, skipping duplicates"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Snapshot file path")),
	), s.handleImport)
}
