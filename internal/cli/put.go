package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beano/memory-man/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "put [content]",
		Short: "Store a memory",
		Long:  "Store a memory. Content can be a positional arg or piped via stdin.",
		Run:   runPut,
	}

	cmd.Flags().StringP("project", "p", "", "Project name")
	cmd.Flags().String("category", "", "Category: architecture, setup, bug_fix, todo, pattern, command, general")
	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	cmd.Flags().IntP("importance", "i", 0, "Importance 1-10 (default from config)")

	RootCmd.AddCommand(cmd)
}

func readContent(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		return strings.TrimSpace(string(b))
	}
	return ""
}

func splitTags(tagsStr string) []string {
	var tags []string
	for _, t := range strings.Split(tagsStr, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func runPut(cmd *cobra.Command, args []string) {
	project, _ := cmd.Flags().GetString("project")
	category, _ := cmd.Flags().GetString("category")
	tagsStr, _ := cmd.Flags().GetString("tags")
	importance, _ := cmd.Flags().GetInt("importance")

	content := readContent(args)
	if content == "" {
		exitErr("put", fmt.Errorf("content is required (positional arg or stdin)"))
	}

	s, cfg, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if importance == 0 {
		importance = cfg.DefaultImportance
	}

	mem, err := s.Put(cmd.Context(), store.PutParams{
		Project:    project,
		Category:   category,
		Content:    content,
		Tags:       splitTags(tagsStr),
		Importance: importance,
	})
	if err != nil {
		exitErr("put", err)
	}

	printJSON(mem)
}
