// =============================================================================
// Transaction Widget - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (widget)
//   ├── processCmd      (widget process)
//   ├── descriptionsCmd (widget descriptions)
//   ├── cardsCmd        (widget cards)
//   └── versionCmd      (widget version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --env-file)
//   2. Loading the configuration and building the logger (loadApp)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/transaction-widget/internal/config"
	"github.com/ginjaninja78/transaction-widget/internal/loader"
	"github.com/ginjaninja78/transaction-widget/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// envFiles are the .env files searched for API_KEY.
var envFiles []string

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "widget",
	Short: "Transaction Widget - Inspect bank operations and resolve amounts into RUB",
	Long: `Transaction Widget reads bank operation exports (JSON, CSV or XLSX),
filters and sorts them for display, and resolves every amount into the
canonical currency using an external exchange-rate service.

Example Usage:
  widget process                             # Show executed operations, newest first
  widget process --currency USD --convert    # Convert USD operations into RUB
  widget process --report                    # Also write an XML report and summary
  widget descriptions --limit 5              # Print the first five descriptions
  widget cards --start 1 --stop 5            # Generate card numbers`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
// Interrupts cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// APPLICATION CONTEXT
// =============================================================================

// app bundles what the commands need after startup.
type app struct {
	cfg    *config.MainConfig
	logger *zap.Logger
}

// loadApp reads the configuration file and builds the logger.
func loadApp() (*app, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Verbose: verbose,
	})
	if err != nil {
		return nil, err
	}

	log.Debug("configuration loaded", zap.String("config", cfgFile), zap.String("input", cfg.InputFile))
	return &app{cfg: cfg, logger: log}, nil
}

// loader returns a transaction loader for the configured formats.
func (a *app) loader() *loader.Loader {
	return loader.New(a.cfg.CSVSettings, a.cfg.XLSXSettings, a.logger)
}

// close flushes the logger.
func (a *app) close() {
	_ = a.logger.Sync()
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// --config flag: A missing file means defaults.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// --env-file flag: Where API_KEY may be defined.
	rootCmd.PersistentFlags().StringSliceVar(
		&envFiles,
		"env-file",
		[]string{".env"},
		"Environment files to load before reading API_KEY",
	)
}
