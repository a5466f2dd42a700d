package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beano/memory-man/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "suggest [context]",
		Short: "Find memories related to the current task context",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSuggest,
	}

	cmd.Flags().StringP("project", "p", "", "Project to search first")
	cmd.Flags().IntP("limit", "l", 0, "Target result count")

	RootCmd.AddCommand(cmd)
}

func runSuggest(cmd *cobra.Command, args []string) {
	project, _ := cmd.Flags().GetString("project")
	limit, _ := cmd.Flags().GetInt("limit")

	s, _, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	suggestions, err := s.SuggestRelated(cmd.Context(), store.SuggestParams{
		Context: strings.Join(args, " "),
		Project: project,
		Limit:   limit,
	})
	if err != nil {
		exitErr("suggest", err)
	}

	if len(suggestions) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(suggestions)
}
