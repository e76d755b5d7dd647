package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (s *session) rebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild <log>",
		Short: "Force a rebuild of the analysis cache",
		Long:  "Delete the log's analysis cache and rebuild it, bypassing the freshness check.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runRebuild(cmd.Context(), args[0])
		},
	}
}

func (s *session) runRebuild(ctx context.Context, logArg string) error {
	store, err := s.openStore(logArg)
	if err != nil {
		return err
	}

	s.logger.Debug("lock acquire exclusive")
	res, err := store.Rebuild(ctx)
	if err != nil {
		return err
	}
	s.logger.Debug("cache rebuilt", "path", store.CachePath())

	msg := fmt.Sprintf("Rebuilt cache: %d groups from %d records", res.Stats.Groups, res.Stats.Records)
	s.print(s.formatter.FormatMessage(msg))
	return nil
}
