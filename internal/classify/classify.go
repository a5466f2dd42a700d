// Package classify derives project, category, tags, and importance from raw
// content using deterministic rule tables. It never fails: absent signal
// degrades to defaults.
package classify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/beano/memory-man/internal/model"
)

// KnownProject is one existing project with its tag vocabulary, ordered most
// recently used first by the caller.
type KnownProject struct {
	Name string
	Tags []string
}

// Input carries the content and ambient context for classification.
type Input struct {
	Content       string
	ProjectHint   string // current project, if the caller knows it
	KnownProjects []KnownProject
	SeedTags      []string // tags contributed by project detection
}

// Result is a best-effort classification. All fields are always populated.
type Result struct {
	Project    string   `json:"project"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Importance int      `json:"importance"`
}

// Options tune classification defaults.
type Options struct {
	DefaultImportance int
	MaxTags           int
}

func (o Options) withDefaults() Options {
	if o.DefaultImportance < model.ImportanceMin || o.DefaultImportance > model.ImportanceMax {
		o.DefaultImportance = 5
	}
	if o.MaxTags <= 0 {
		o.MaxTags = 8
	}
	return o
}

// categoryRule maps keyword presence to a category. Rules are evaluated top
// down; the first match wins.
type categoryRule struct {
	category string
	keywords []string
}

var categoryRules = []categoryRule{
	{"bug_fix", []string{"fix", "fixed", "bug", "error", "issue", "problem", "solution", "resolved", "workaround"}},
	{"architecture", []string{"architecture", "design", "chose", "decided", "structure", "database", "schema"}},
	{"setup", []string{"install", "setup", "config", "configure", "environment", "deploy"}},
	{"command", []string{"command", "run", "script", "npm", "pip", "cargo", "make"}},
	{"todo", []string{"todo", "later", "future", "plan", "next", "implement"}},
	{"pattern", []string{"pattern", "utility", "helper", "function", "approach"}},
}

// tagVocabulary is the known-technology vocabulary matched as whole words.
var tagVocabulary = []string{
	"postgres", "mysql", "sqlite", "redis", "mongodb",
	"react", "vue", "angular", "nextjs", "express",
	"javascript", "typescript", "python", "rust", "java",
	"jwt", "oauth", "authentication", "authorization", "session",
	"rest", "graphql", "api", "endpoint", "middleware",
	"docker", "kubernetes", "aws", "azure", "heroku",
	"git", "github", "gitlab", "pipeline",
	"test", "testing", "mock", "jest", "pytest",
	"cors", "nginx", "webpack", "cache", "migration",
}

var severityKeywords = []string{"critical", "breaking", "security", "urgent", "production"}

var wordSplit = regexp.MustCompile(`[a-z0-9_]+`)

// Classify produces a best-effort classification for the content. Same input
// and same known-project state always produce the same output.
func Classify(in Input, opts Options) Result {
	opts = opts.withDefaults()
	lower := strings.ToLower(in.Content)
	words := wordSet(lower)

	return Result{
		Project:    detectProjectName(lower, in),
		Category:   detectCategory(words),
		Tags:       detectTags(words, in.SeedTags, opts.MaxTags),
		Importance: detectImportance(words, opts.DefaultImportance),
	}
}

func wordSet(lower string) map[string]bool {
	set := map[string]bool{}
	for _, w := range wordSplit.FindAllString(lower, -1) {
		set[w] = true
	}
	return set
}

func detectProjectName(lower string, in Input) string {
	if in.ProjectHint != "" {
		return in.ProjectHint
	}
	// Known projects arrive most recently used first; the first whose name or
	// tags appear in the content wins.
	for _, p := range in.KnownProjects {
		if p.Name != "" && strings.Contains(lower, strings.ToLower(p.Name)) {
			return p.Name
		}
		for _, tag := range p.Tags {
			if tag != "" && strings.Contains(lower, strings.ToLower(tag)) {
				return p.Name
			}
		}
	}
	return model.DefaultProject
}

func detectCategory(words map[string]bool) string {
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if words[kw] {
				return rule.category
			}
		}
	}
	return model.DefaultCategory
}

func detectTags(words map[string]bool, seed []string, max int) []string {
	var tags []string
	seen := map[string]bool{}
	add := func(t string) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		tags = append(tags, t)
	}

	for _, t := range seed {
		add(t)
	}
	var matched []string
	for _, t := range tagVocabulary {
		if words[t] && !seen[t] {
			matched = append(matched, t)
		}
	}
	// Most specific (longest) terms survive truncation.
	sort.SliceStable(matched, func(i, j int) bool { return len(matched[i]) > len(matched[j]) })
	for _, t := range matched {
		add(t)
	}

	if len(tags) > max {
		tags = tags[:max]
	}
	return tags
}

func detectImportance(words map[string]bool, base int) int {
	importance := base
	for _, kw := range severityKeywords {
		if words[kw] {
			importance += 2
			break
		}
	}
	if importance > model.ImportanceMax {
		importance = model.ImportanceMax
	}
	return importance
}
