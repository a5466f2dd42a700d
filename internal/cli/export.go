package cli

import (
	"github.com/spf13/cobra"

	"github.com/beano/memory-man/internal/store"
	enginesync "github.com/beano/memory-man/internal/sync"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export memories to a redacted snapshot file",
		Long:  "Export memories as a redacted JSON snapshot safe to sync over an untrusted channel. Secrets are replaced with labeled placeholders.",
		Args:  cobra.ExactArgs(1),
		Run:   runExport,
	}

	cmd.Flags().StringP("project", "p", "", "Filter by project")
	cmd.Flags().String("category", "", "Filter by category")
	cmd.Flags().Bool("no-archived", false, "Leave archived memories out")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	project, _ := cmd.Flags().GetString("project")
	category, _ := cmd.Flags().GetString("category")
	noArchived, _ := cmd.Flags().GetBool("no-archived")

	s, _, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	snap, err := enginesync.Export(cmd.Context(), s, store.ExportFilters{
		Project:         project,
		Category:        category,
		ExcludeArchived: noArchived,
	})
	if err != nil {
		exitErr("export", err)
	}

	if err := enginesync.WriteFile(args[0], snap); err != nil {
		exitErr("export", err)
	}

	printJSON(map[string]interface{}{
		"path":           args[0],
		"total_memories": snap.TotalMemories,
		"redacted_count": snap.RedactedCount,
	})
}
