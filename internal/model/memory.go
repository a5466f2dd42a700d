// Package model defines the core memory data types.
package model

import "time"

// Memory represents a single stored fact with its metadata.
type Memory struct {
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
}

// DefaultProject is used when no project is given and none can be detected.
const DefaultProject = "unfiled"

// DefaultCategory is the escape value for content that matches no rule.
const DefaultCategory = "general"

// BuiltinCategories are the categories known to the engine. Configuration may
// extend this set; the classifier only ever emits built-in values.
var BuiltinCategories = []string{
	"architecture",
	"setup",
	"bug_fix",
	"todo",
	"pattern",
	"command",
	DefaultCategory,
}

// ImportanceMin and ImportanceMax bound the importance scale. Values outside
// the range are rejected, never clamped.
const (
	ImportanceMin = 1
	ImportanceMax = 10
)
