// Package cmd implements the stage CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/go-drift/stage/cmd/stage/internal/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Exit codes.
const (
	ExitFailure      = 1
	ExitCommandError = 2
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config    string
	Verbose   bool
	Format    string // "text" | "json"
	LogFormat string // "auto" | "text" | "json"
}

var (
	validFormats    = []string{"text", "json"}
	validLogFormats = []string{"auto", "text", "json"}
)

// usageError marks errors caused by bad invocation rather than a failed run.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	var ue *usageError
	if errors.As(err, &ue) {
		return ExitCommandError
	}
	return ExitFailure
}

// NewRootCommand creates the root command for the stage CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "stage",
		Short: "stage - retained-mode node trees, run headlessly",
		Long: `stage builds node trees from scenarios, feeds them scripted input
frame by frame and prints which listeners each event reached.

Use "stage <command> --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return &usageError{fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)}
			}
			if opts.LogFormat != "" && !slices.Contains(validLogFormats, opts.LogFormat) {
				return &usageError{fmt.Errorf("invalid log format %q: must be one of %v", opts.LogFormat, validLogFormats)}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to stage.yaml (default: nearest project root)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (auto|text|json, default from stage.yaml or auto)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewScenariosCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// resolveConfig loads the configuration named by --config, or stage.yaml
// from the project root enclosing the working directory.
func resolveConfig(opts *RootOptions) (*config.Resolved, error) {
	if opts.Config != "" {
		cfg, err := config.Load(opts.Config)
		if err != nil {
			return nil, &usageError{err}
		}
		abs, err := filepath.Abs(opts.Config)
		if err != nil {
			return nil, err
		}
		res, err := cfg.Resolve(filepath.Dir(abs))
		if err != nil {
			return nil, &usageError{err}
		}
		return res, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := config.FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	res, err := config.Resolve(root)
	if err != nil {
		return nil, &usageError{err}
	}
	return res, nil
}

// newLogger builds the CLI logger. In auto mode terminals get text and
// everything else gets JSON.
func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	if format == "" || format == "auto" {
		format = "json"
		if f, ok := w.(*os.File); ok && isTerminal(f.Fd()) {
			format = "text"
		}
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
