// Package cmdutil holds the helpers shared by the manifest subcommands.
package cmdutil

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/manifest/pkg/logger"
)

// NewLogger builds the command logger from the persistent --debug and
// --log-file flags. Pretty output goes to stderr so stdout stays parseable;
// with --log-file, JSON records are also appended to that file. The returned
// func closes the log file and must always be called.
func NewLogger(cmd *cobra.Command, component string) (*slog.Logger, func(), error) {
	debug, _ := cmd.Flags().GetBool("debug")
	logFile, _ := cmd.Flags().GetString("log-file")

	pretty := logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(true),
		logger.WithPrefix(component),
		logger.WithWriter(cmd.ErrOrStderr()),
	)

	if logFile == "" {
		return pretty, func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(
		logger.WithDebug(true),
		logger.WithJSON(true),
		logger.WithPrefix(component),
		logger.WithWriter(f),
	)

	return logger.Multi(pretty, file), func() { _ = f.Close() }, nil
}
