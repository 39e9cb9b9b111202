package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/screen-values-mcp/internal/config"
	"github.com/ironsheep/screen-values-mcp/internal/logging"
	"github.com/ironsheep/screen-values-mcp/internal/ocr"
	"github.com/ironsheep/screen-values-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

type rootOptions struct {
	envFile  string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "screen-values-mcp",
		Short: "MCP server that reads numeric values off screenshots",
		Long: `screen-values-mcp answers questions like "what number is printed to the
right of Gold?" by running OCR on a screenshot and searching the recognized
words spatially.

This server communicates via MCP protocol over stdin/stdout.
Configure it in your MCP client (e.g., Claude Desktop).

Environment variables (also read from the --env-file):
  SCREENVAL_LOG_LEVEL          debug, info, warn or error
  SCREENVAL_LANGUAGE           Tesseract language, e.g. eng or eng+deu
  SCREENVAL_TESSDATA_PREFIX    Directory holding the traineddata files
  SCREENVAL_MODES              Default preprocessing passes, e.g. gray,thresh
  SCREENVAL_MIN_WIDTH          Upscale narrower images to this width
  SCREENVAL_INVERT_DARK        Invert dark screenshots before OCR
  SCREENVAL_ZERO_SUBSTITUTES   Tokens read as 0 by screen_number_row
  SCREENVAL_NO_COLOR           Disable colored log levels`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to a file with SCREENVAL_* settings (default "+config.DefaultEnvFile+" if present)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override SCREENVAL_LOG_LEVEL")

	cmd.AddCommand(newVersionCmd(), newReportCmd(opts))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "screen-values-mcp %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  Tesseract:  %s\n", ocr.Version())
		},
	}
}

// newReportCmd prints the raw OCR report of an image, which can be saved and
// passed back to the screen_* tools as report_path.
func newReportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report <image>",
		Short: "Print the tab-separated OCR report of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(*opts)
			if err != nil {
				return err
			}
			report, err := cfg.Engine().Report(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), report)
			return err
		},
	}
}

// setup loads the configuration and builds the stderr logger. stdout is
// reserved for the MCP protocol.
func setup(opts rootOptions) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.logLevel != "" {
		level, err := logging.ParseLevel(opts.logLevel)
		if err != nil {
			return nil, nil, err
		}
		cfg.LogLevel = level
	}
	return cfg, logging.Stderr(cfg.LogLevel, cfg.NoColor), nil
}

func runServer(ctx context.Context, opts rootOptions) error {
	cfg, logger, err := setup(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "version", Version, "built", BuildTime, "commit", GitCommit)
	logger.Debug("configuration", "language", cfg.Language, "modes", cfg.Modes, "min_width", cfg.MinWidth, "invert_dark", cfg.InvertDark)

	srv := server.New(server.Options{
		Engine:          cfg.Engine(),
		Modes:           cfg.Modes,
		Preprocess:      cfg.PreprocessOptions(),
		ZeroSubstitutes: cfg.ZeroSubstitutes,
		Logger:          logger,
		Version:         Version,
	})
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("stopped")
	return nil
}
