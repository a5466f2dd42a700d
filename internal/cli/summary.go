package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "summary <project>",
		Short: "Summarize a project's memories",
		Long:  "Aggregate counts by category, top tags, recent and most-referenced memories for a project.",
		Args:  cobra.ExactArgs(1),
		Run:   runSummary,
	}

	RootCmd.AddCommand(cmd)
}

func runSummary(cmd *cobra.Command, args []string) {
	s, _, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sum, err := s.ProjectSummary(cmd.Context(), args[0])
	if err != nil {
		exitErr("summary", err)
	}

	printJSON(sum)
}
