package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	archiveCmd := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a memory",
		Args:  cobra.ExactArgs(1),
		Run:   runArchive,
	}
	archiveCmd.Flags().StringP("reason", "r", "manual archival", "Reason for archiving")
	RootCmd.AddCommand(archiveCmd)

	unarchiveCmd := &cobra.Command{
		Use:   "unarchive <id>",
		Short: "Restore an archived memory to the active state",
		Args:  cobra.ExactArgs(1),
		Run:   runUnarchive,
	}
	RootCmd.AddCommand(unarchiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) {
	reason, _ := cmd.Flags().GetString("reason")

	s, _, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	mem, err := s.Archive(cmd.Context(), args[0], reason)
	if err != nil {
		exitErr("archive", err)
	}

	printJSON(mem)
}

func runUnarchive(cmd *cobra.Command, args []string) {
	s, _, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	mem, err := s.Unarchive(cmd.Context(), args[0])
	if err != nil {
		exitErr("unarchive", err)
	}

	printJSON(mem)
}
