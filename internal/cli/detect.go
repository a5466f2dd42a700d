package cli

import (
	"github.com/spf13/cobra"

	"github.com/beano/memory-man/internal/classify"
)

func init() {
	cmd := &cobra.Command{
		Use:   "detect [dir]",
		Short: "Detect project information from a working directory",
		Args:  cobra.MaximumNArgs(1),
		Run:   runDetect,
	}

	RootCmd.AddCommand(cmd)
}

func runDetect(cmd *cobra.Command, args []string) {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	printJSON(classify.DetectProject(dir))
}
