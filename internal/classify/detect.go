package classify

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// ProjectInfo describes a working directory's project.
type ProjectInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Language  string `json:"language"`
	Framework string `json:"framework"`
	HasGit    bool   `json:"has_git"`
}

// DetectProject inspects marker files in dir to identify the project. It never
// fails; unrecognized directories yield "unknown" fields and the directory's
// base name. An empty dir uses the process working directory.
func DetectProject(dir string) ProjectInfo {
	if dir == "" {
		dir, _ = os.Getwd()
	}

	info := ProjectInfo{
		Name:      filepath.Base(dir),
		Type:      "unknown",
		Language:  "unknown",
		Framework: "unknown",
	}

	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(dir, name))
		return err == nil
	}

	switch {
	case exists("go.mod"):
		info.Type = "go"
		info.Language = "go"
	case exists("package.json"):
		info.Type = "javascript"
		info.Language = "javascript"
		detectNodeProject(dir, &info)
	case exists("Cargo.toml"):
		info.Type = "rust"
		info.Language = "rust"
		info.Framework = "cargo"
	case exists("pyproject.toml") || exists("setup.py") || exists("requirements.txt"):
		info.Type = "python"
		info.Language = "python"
		detectPythonProject(dir, &info)
	case exists("pom.xml"):
		info.Type = "java"
		info.Language = "java"
		info.Framework = "maven"
	case exists("build.gradle"):
		info.Type = "java"
		info.Language = "java"
		info.Framework = "gradle"
	}

	info.HasGit = exists(".git")
	return info
}

// SeedTags returns the detection-derived tags for auto-stored content.
func (p ProjectInfo) SeedTags() []string {
	var tags []string
	if p.Language != "unknown" {
		tags = append(tags, p.Language)
	}
	if p.Framework != "unknown" {
		tags = append(tags, p.Framework)
	}
	return tags
}

func detectNodeProject(dir string, info *ProjectInfo) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return
	}
	var pkg struct {
		Name            string            `json:"name"`
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return
	}

	deps := map[string]bool{}
	for d := range pkg.Dependencies {
		deps[d] = true
	}
	for d := range pkg.DevDependencies {
		deps[d] = true
	}

	if deps["typescript"] {
		info.Language = "typescript"
	}
	switch {
	case deps["next"]:
		info.Framework = "nextjs"
	case deps["react"]:
		info.Framework = "react"
	case deps["vue"]:
		info.Framework = "vue"
	case deps["angular"], deps["@angular/core"]:
		info.Framework = "angular"
	case deps["express"]:
		info.Framework = "express"
	}
}

func detectPythonProject(dir string, info *ProjectInfo) {
	if _, err := os.Stat(filepath.Join(dir, "manage.py")); err == nil {
		info.Framework = "django"
		return
	}
	data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
	if err != nil {
		return
	}
	content := strings.ToLower(string(data))
	switch {
	case strings.Contains(content, "fastapi"):
		info.Framework = "fastapi"
	case strings.Contains(content, "flask"):
		info.Framework = "flask"
	case strings.Contains(content, "django"):
		info.Framework = "django"
	}
}
