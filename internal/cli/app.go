// Package cli implements the finddups command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/leeovery/finddups/internal/config"
	"github.com/leeovery/finddups/internal/storage"
)

// Program is the name written to PROGRAMID in output headers.
const Program = "finddups"

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// App is the CLI application.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	// Dir is the working directory used for relative paths, .env and the
	// default config file.
	Dir    string
	Getenv func(string) string
	Now    func() time.Time
}

// exitCode makes a command finish with a specific status without printing
// an error message.
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	quiet      bool
	verbose    bool
	toon       bool
	pretty     bool
	json       bool
	configPath string
}

// session is the state of a single Run: resolved configuration, logger and
// output format.
type session struct {
	app       *App
	args      []string
	flags     globalFlags
	cfg       *config.Config
	logger    *log.Logger
	formatter Formatter
}

// Run executes the command line in args. args[0] is the program name.
// It returns the process exit code.
func (a *App) Run(args []string) int {
	a.defaults()

	s := &session{app: a, args: args}
	root := s.rootCmd()
	if len(args) > 1 {
		root.SetArgs(args[1:])
	} else {
		root.SetArgs([]string{})
	}

	if err := root.ExecuteContext(context.Background()); err != nil {
		var code exitCode
		if errors.As(err, &code) {
			return int(code)
		}
		fmt.Fprintf(a.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

func (a *App) defaults() {
	if a.Stdout == nil {
		a.Stdout = os.Stdout
	}
	if a.Stderr == nil {
		a.Stderr = os.Stderr
	}
	if a.Dir == "" {
		a.Dir = "."
	}
	if a.Getenv == nil {
		a.Getenv = os.Getenv
	}
	if a.Now == nil {
		a.Now = time.Now
	}
}

func (s *session) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "finddups",
		Short: "Find and remove duplicate QSOs in ADIF logs",
		Long: `finddups groups QSO records that describe the same contact, keeps the
confirmed or best candidate of each group, and writes a cleaned ADIF log.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: s.setup,
	}
	root.SetOut(s.app.Stdout)
	root.SetErr(s.app.Stderr)

	pf := root.PersistentFlags()
	pf.BoolVarP(&s.flags.quiet, "quiet", "q", false, "Suppress non-essential output")
	pf.BoolVarP(&s.flags.verbose, "verbose", "v", false, "More detail for debugging")
	pf.BoolVar(&s.flags.toon, "toon", false, "Force TOON output format")
	pf.BoolVar(&s.flags.pretty, "pretty", false, "Force human-readable output format")
	pf.BoolVar(&s.flags.json, "json", false, "Force JSON output format")
	pf.StringVar(&s.flags.configPath, "config", "", "Config file (default ./"+config.FileName+")")

	root.AddCommand(
		s.dedupCmd(),
		s.groupsCmd(),
		s.statsCmd(),
		s.doctorCmd(),
		s.rebuildCmd(),
		s.versionCmd(),
	)
	return root
}

// setup resolves configuration, output format and logging before any
// command runs. Command flags that mirror config keys override the config.
func (s *session) setup(cmd *cobra.Command, _ []string) error {
	format, err := ResolveFormat(s.flags.toon, s.flags.pretty, s.flags.json, DetectTTY(s.app.Stdout))
	if err != nil {
		return err
	}
	s.formatter = NewFormatter(format, DetectTTY(s.app.Stdout))

	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("mode"); f != nil && f.Changed {
		cfg.OutputMode = f.Value.String()
	}
	if f := cmd.Flags().Lookup("prop-mode"); f != nil && f.Changed {
		cfg.PropMode = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	s.cfg = cfg

	s.logger = newLogger(s.app.Stderr, s.flags.quiet, s.flags.verbose)
	return nil
}

// loadConfig layers defaults, the YAML file, .env and the environment.
func (s *session) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(s.app.Dir, s.path(s.flags.configPath))
	if err != nil {
		return nil, err
	}
	dotenv, err := config.ReadDotEnv(s.app.Dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(config.Lookup(s.app.Getenv, dotenv)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// path resolves p against the App's working directory.
func (s *session) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.app.Dir, p)
}

// openStore opens a Store for the log named on the command line.
func (s *session) openStore(logArg string) (*storage.Store, error) {
	opts := []storage.Option{
		storage.WithLockTimeout(s.cfg.LockTimeout),
		storage.WithShards(s.cfg.Shards),
		storage.WithLogger(s.logger),
	}
	if s.cfg.CacheDir != "" {
		opts = append(opts, storage.WithCacheDir(s.path(s.cfg.CacheDir)))
	}
	s.logger.Debug("store open", "log", logArg)
	return storage.NewStore(s.path(logArg), opts...)
}

// invocation is the command line recorded in output headers.
func (s *session) invocation() string {
	if len(s.args) == 0 {
		return Program
	}
	parts := append([]string{filepath.Base(s.args[0])}, s.args[1:]...)
	return strings.Join(parts, " ")
}

// print writes formatted output unless --quiet is set.
func (s *session) print(out string) {
	if s.flags.quiet || out == "" {
		return
	}
	fmt.Fprint(s.app.Stdout, out)
}
