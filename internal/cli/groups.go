package cli

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/leeovery/finddups/internal/storage/sqlite"
)

func (s *session) groupsCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "groups <log>",
		Short: "List duplicate groups with their members and keep flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runGroups(cmd.Context(), args[0], all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include groups with a single record")
	return cmd
}

func (s *session) runGroups(ctx context.Context, logArg string, all bool) error {
	store, err := s.openStore(logArg)
	if err != nil {
		return err
	}

	var rows []sqlite.GroupRow
	err = store.Query(ctx, func(db *sql.DB) error {
		var err error
		rows, err = sqlite.ReadGroups(ctx, db, !all)
		return err
	})
	if err != nil {
		return err
	}

	s.print(s.formatter.FormatGroups(groupData(rows, s.cfg.Separator)))
	return nil
}
