package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beano/memory-man/internal/classify"
	"github.com/beano/memory-man/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "auto [content]",
		Short: "Store a memory with auto-detected project, category, and tags",
		Run:   runAuto,
	}

	cmd.Flags().StringP("dir", "w", "", "Working directory for project detection (default: current)")
	cmd.Flags().IntP("importance", "i", 0, "Importance 1-10 (default: classifier's choice)")

	RootCmd.AddCommand(cmd)
}

func runAuto(cmd *cobra.Command, args []string) {
	dir, _ := cmd.Flags().GetString("dir")
	importance, _ := cmd.Flags().GetInt("importance")

	content := readContent(args)
	if content == "" {
		exitErr("auto", fmt.Errorf("content is required (positional arg or stdin)"))
	}

	s, cfg, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	detected := classify.DetectProject(dir)

	vocab, err := s.ProjectVocabulary(cmd.Context())
	if err != nil {
		exitErr("auto", err)
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
		DefaultImportance: cfg.DefaultImportance,
		MaxTags:           cfg.MaxAutoTags,
	})

	if importance == 0 {
		importance = cls.Importance
	}

	mem, err := s.Put(cmd.Context(), store.PutParams{
		Project:    cls.Project,
		Category:   cls.Category,
		Content:    content,
		Tags:       cls.Tags,
		Importance: importance,
	})
	if err != nil {
		exitErr("auto", err)
	}

	printJSON(map[string]interface{}{
		"memory":        mem,
		"auto_detected": cls,
	})
}
