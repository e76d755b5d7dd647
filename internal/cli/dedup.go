package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/leeovery/finddups/internal/adif"
	"github.com/leeovery/finddups/internal/dedup"
	"github.com/leeovery/finddups/internal/export"
)

// dedupOptions holds the dedup command's own flags. mode and prop-mode are
// folded into the config during setup.
type dedupOptions struct {
	output   string
	mode     string
	propMode string
}

func (s *session) dedupCmd() *cobra.Command {
	var opts dedupOptions
	cmd := &cobra.Command{
		Use:   "dedup <log>",
		Short: "Write the log with duplicate QSOs removed or marked",
		Long: `Group the log's QSOs by call, date, time (to the minute), band, RX band
and mode, pick the record to keep in each group, and write the result.

In filter mode only kept records are written. In mark mode every record is
written; members of duplicate groups get APP_FINDDUPS_KEEP and discarded
ones have PROP_MODE set to the configured value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runDedup(cmd.Context(), args[0], opts.output)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default stdout, - for stdout)")
	f.StringVar(&opts.mode, "mode", string(export.ModeFilter), "Output mode: filter or mark")
	f.StringVar(&opts.propMode, "prop-mode", export.DefaultPropMode, "PROP_MODE written on discarded records in mark mode")
	return cmd
}

func (s *session) runDedup(ctx context.Context, logArg, output string) error {
	store, err := s.openStore(logArg)
	if err != nil {
		return err
	}

	l, res, err := store.Analyze(ctx)
	if err != nil {
		return err
	}

	if err := dedup.ValidateSeparator(l.Records, s.cfg.Separator); err != nil {
		var se *dedup.SeparatorError
		if errors.As(err, &se) {
			s.logger.Warn("separator found in key field", "record", se.Index+1, "field", se.Field, "value", se.Value)
		}
	}

	for _, g := range res.Groups.Duplicated() {
		s.logger.Debug("group", "key", g.Key.Join(s.cfg.Separator), "size", g.Len(),
			"confirmed", g.ConfirmedCount(), "choice", g.Choice, "kept", len(g.Kept()))
	}

	mode, err := export.ParseMode(s.cfg.OutputMode)
	if err != nil {
		return err
	}

	out := &adif.Log{
		Header: export.RewriteHeader(l.Header, export.HeaderOptions{
			SourceFile: store.LogPath(),
			Invocation: s.invocation(),
			Program:    Program,
			Version:    Version,
			Now:        s.app.Now(),
			Mode:       mode,
		}),
		Records: export.Records(res, export.Options{Mode: mode, PropMode: s.cfg.PropMode}),
	}

	if output == "" || output == "-" {
		return adif.Encode(s.app.Stdout, out)
	}

	path := s.path(output)
	if err := store.WriteLog(ctx, path, out); err != nil {
		return err
	}
	s.logger.Debug("output written", "path", path, "records", len(out.Records))

	s.print(s.formatter.FormatSummary(SummaryData{
		Source:          store.LogPath(),
		Output:          path,
		Mode:            string(mode),
		Records:         res.Stats.Records,
		Written:         len(out.Records),
		Discarded:       res.Stats.Discarded,
		DuplicateGroups: res.Stats.DuplicateGroups,
		Ambiguous:       res.Stats.Ambiguous,
	}))
	return nil
}
