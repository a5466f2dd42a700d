package cli

import (
	"github.com/spf13/cobra"

	"github.com/beano/memory-man/internal/lifecycle"
)

func init() {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Archive old, unused memories matching the criteria",
		Long:  "Evaluate the archival policy over active memories. Dry-run by default; pass --apply to archive the candidates.",
		Run:   runCleanup,
	}

	cmd.Flags().StringP("project", "p", "", "Project to clean up (all when omitted)")
	cmd.Flags().Int("age", 0, "Age threshold in days (default 90)")
	cmd.Flags().Int("access", 0, "Access-count threshold (default 1)")
	cmd.Flags().Int("importance", 0, "Importance threshold (default 3)")
	cmd.Flags().Bool("apply", false, "Actually archive the candidates")

	RootCmd.AddCommand(cmd)
}

func runCleanup(cmd *cobra.Command, args []string) {
	project, _ := cmd.Flags().GetString("project")
	age, _ := cmd.Flags().GetInt("age")
	access, _ := cmd.Flags().GetInt("access")
	importance, _ := cmd.Flags().GetInt("importance")
	apply, _ := cmd.Flags().GetBool("apply")

	s, _, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rep, err := lifecycle.Cleanup(cmd.Context(), s, lifecycle.Criteria{
		Project:        project,
		MinAgeDays:     age,
		MaxAccessCount: access,
		MaxImportance:  importance,
	}, !apply)
	if err != nil {
		exitErr("cleanup", err)
	}

	printJSON(rep)
}
