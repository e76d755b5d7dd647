package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (s *session) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the program version",
		Args:  cobra.NoArgs,
		// No config is loaded for version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(s.app.Stdout, "%s %s\n", Program, Version)
			return err
		},
	}
}
