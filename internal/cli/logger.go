package cli

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger builds the stderr logger shared by commands and storage.
// --verbose enables debug output; --quiet leaves only errors.
func newLogger(w io.Writer, quiet, verbose bool) *log.Logger {
	level := log.InfoLevel
	switch {
	case verbose:
		level = log.DebugLevel
	case quiet:
		level = log.ErrorLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: Program,
	})
}
