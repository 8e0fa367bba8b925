package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/go-drift/stage/cmd/stage/internal/config"
	"github.com/go-drift/stage/cmd/stage/internal/scenario"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Frames    int
	TickRate  float64
	DebugAddr string
	Tree      bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [scenario|file.yaml]",
		Short: "Run a scenario headlessly and print the delivery log",
		Long: `Run a built-in scenario, or a scenario file, against a scripted host.

Each scripted frame's events are routed through the tree; every event a
group receives is printed as one line of the delivery log. Without an
argument the "mouse" scenario runs.

Example:
  stage run
  stage run nested --frames 10
  stage run ./scenes/menu.yaml --debug-addr 127.0.0.1:9300`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "mouse"
			if len(args) == 1 {
				name = args[0]
			}
			return runScenario(cmd, opts, name)
		},
	}

	cmd.Flags().IntVar(&opts.Frames, "frames", 0, "frames to run (default: length of the script)")
	cmd.Flags().Float64Var(&opts.TickRate, "tick-rate", 0, "frames per second (default from stage.yaml, 0 = unpaced)")
	cmd.Flags().StringVar(&opts.DebugAddr, "debug-addr", "", "serve /tree, /frames and /metrics on this address")
	cmd.Flags().BoolVar(&opts.Tree, "tree", false, "print the final node tree")

	return cmd
}

func runScenario(cmd *cobra.Command, opts *RunOptions, name string) error {
	cfg, err := resolveConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, opts, cfg)

	level := cfg.LogLevel
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logFormat := cfg.LogFormat
	if opts.LogFormat != "" {
		logFormat = opts.LogFormat
	}
	logger := newLogger(cmd.ErrOrStderr(), logFormat, level).With(slog.String("app", cfg.AppName))

	s, err := scenario.Resolve(name)
	if err != nil {
		return &usageError{err}
	}
	logger.Debug("scenario loaded", slog.String("scenario", s.Name), slog.Int("frames", len(s.Events())))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping", slog.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	res, err := scenario.Run(ctx, s, scenario.Options{
		Frames:    cfg.Frames,
		TickRate:  cfg.TickRate,
		DebugAddr: cfg.DebugAddr,
		Logger:    logger,
		OnDebugServer: func(addr string) {
			logger.Info("debug server listening", slog.String("addr", "http://"+addr))
		},
	})
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		if !opts.Tree {
			res.Tree = ""
		}
		return writeJSON(cmd.OutOrStdout(), res)
	}
	return printResult(cmd.OutOrStdout(), res, opts.Tree)
}

// applyRunFlags lets explicitly set flags override stage.yaml.
func applyRunFlags(cmd *cobra.Command, opts *RunOptions, cfg *config.Resolved) {
	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Frames = opts.Frames
	}
	if flags.Changed("tick-rate") {
		cfg.TickRate = opts.TickRate
	}
	if flags.Changed("debug-addr") {
		cfg.DebugAddr = opts.DebugAddr
	}
}

func printResult(w io.Writer, res *scenario.Result, tree bool) error {
	for _, d := range res.Deliveries {
		if _, err := fmt.Fprintln(w, d); err != nil {
			return err
		}
	}
	if tree {
		if _, err := io.WriteString(w, res.Tree); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s: %d frames, %d deliveries\n", res.Scenario, res.Frames, len(res.Deliveries))
	return err
}
