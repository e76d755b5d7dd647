package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/leeovery/finddups/internal/adif"
	"github.com/leeovery/finddups/internal/doctor"
)

func (s *session) doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor <log>",
		Short: "Run diagnostics on a log",
		Long: `Check the log's ADIF syntax, TIME_ON formats, missing key fields,
separator conflicts, ambiguous groups and cache freshness. Never modifies
the log or the cache. Exits 1 when any error-severity check fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runDoctor(cmd.Context(), args[0])
		},
	}
}

func (s *session) runDoctor(ctx context.Context, logArg string) error {
	target := doctor.Target{
		LogPath:   s.path(logArg),
		Separator: s.cfg.Separator,
	}
	if l, err := adif.ReadFile(target.LogPath); err == nil {
		target.Log = l
	}

	// A missing log still gets a report; the syntax check names the problem.
	if store, err := s.openStore(logArg); err == nil {
		target.CachePath = store.CachePath()
	} else {
		s.logger.Debug("cache path unavailable", "err", err)
	}

	report := doctor.NewDefaultRunner(target).RunAll(ctx)
	doctor.FormatReport(s.app.Stdout, report, DetectTTY(s.app.Stdout))

	if code := doctor.ExitCode(report); code != 0 {
		return exitCode(code)
	}
	return nil
}
