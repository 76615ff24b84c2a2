package flags

import (
	"github.com/spf13/cobra"
)

func AddPick(cmd *cobra.Command) {
	cmd.Flags().
		Bool("pick", false, "Choose a result in a fuzzy finder and print where it leads.")
}

func HandlePick(cmd *cobra.Command) (bool, error) {
	return cmd.Flags().GetBool("pick")
}

func AddPlain(cmd *cobra.Command) {
	cmd.Flags().
		Bool("plain", false, "Print without colors even when writing to a terminal.")
}

func HandlePlain(cmd *cobra.Command) (bool, error) {
	return cmd.Flags().GetBool("plain")
}
