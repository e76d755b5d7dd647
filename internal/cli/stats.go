package cli

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/leeovery/finddups/internal/dedup"
	"github.com/leeovery/finddups/internal/storage/sqlite"
)

func (s *session) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <log>",
		Short: "Show record, group and retention counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runStats(cmd.Context(), args[0])
		},
	}
}

func (s *session) runStats(ctx context.Context, logArg string) error {
	store, err := s.openStore(logArg)
	if err != nil {
		return err
	}

	var stats dedup.Stats
	err = store.Query(ctx, func(db *sql.DB) error {
		var err error
		stats, err = sqlite.ReadStats(ctx, db)
		return err
	})
	if err != nil {
		return err
	}

	s.print(s.formatter.FormatStats(stats))
	return nil
}
