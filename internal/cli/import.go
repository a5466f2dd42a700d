package cli

import (
	"github.com/spf13/cobra"

	enginesync "github.com/beano/memory-man/internal/sync"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a snapshot file into the store",
		Long:  "Import memories from a snapshot. Entries whose project+content already exist are skipped, so re-importing the same snapshot is a no-op.",
		Args:  cobra.ExactArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	snap, err := enginesync.ReadFile(args[0])
	if err != nil {
		exitErr("import", err)
	}

	s, _, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rep, err := enginesync.Import(cmd.Context(), s, snap)
	if err != nil {
		exitErr("import", err)
	}

	printJSON(rep)
}
