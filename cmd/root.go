package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	app     *application

	// Command flags
	outputFormat string
	filterExpr   string
	page         int
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Browse and search the movie catalog from the terminal",
	Long: `marquee is a movie discovery tool. It lists trending, popular and upcoming
movies, searches the catalog, shows movie and person details, and keeps a
small amount of local state: theme preference, recent searches and
notifications.

Responses are cached for a few minutes and optionally persisted between runs.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
	SilenceUsage:       true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	// PersistentPostRunE is skipped when a command fails
	if app != nil {
		if closeErr := app.Close(context.Background()); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("Failed to shut down cleanly")
		}
		app = nil
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
}

// initializeApp loads the configuration and wires every component
func initializeApp(cmd *cobra.Command, args []string) error {
	if _, err := parseFormat(outputFormat); err != nil {
		return err
	}

	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	app, err = newApplication(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	return nil
}

// shutdownApp persists the query cache and releases the store
func shutdownApp(cmd *cobra.Command, args []string) error {
	if app == nil {
		return nil
	}
	err := app.Close(cmd.Context())
	app = nil
	return err
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
