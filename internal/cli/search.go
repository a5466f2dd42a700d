package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beano/memory-man/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search memories by text and filters",
		Run:   runSearch,
	}

	cmd.Flags().StringP("project", "p", "", "Filter by project")
	cmd.Flags().String("category", "", "Filter by category")
	cmd.Flags().StringP("tags", "t", "", "Filter by comma-separated tags")
	cmd.Flags().IntP("limit", "l", 0, "Max results (default from config)")
	cmd.Flags().Bool("archived", false, "Include archived memories")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	project, _ := cmd.Flags().GetString("project")
	category, _ := cmd.Flags().GetString("category")
	tagsStr, _ := cmd.Flags().GetString("tags")
	limit, _ := cmd.Flags().GetInt("limit")
	archived, _ := cmd.Flags().GetBool("archived")

	s, _, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.QueryParams{
		Text:            strings.Join(args, " "),
		Project:         project,
		Category:        category,
		Tags:            splitTags(tagsStr),
		Limit:           limit,
		IncludeArchived: archived,
	})
	if err != nil {
		exitErr("search", err)
	}

	if len(results) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(results)
}
