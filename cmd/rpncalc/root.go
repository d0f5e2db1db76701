package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"intlab/rpncalc/pkg/cli"
	"intlab/rpncalc/pkg/config"
	"intlab/rpncalc/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// appConfig is loaded before every command runs.
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "rpncalc",
	Short: "rpncalc - infix arithmetic via Reverse Polish Notation",
	Long: `rpncalc evaluates arithmetic expressions with +, -, *, /, parentheses,
unary minus and decimal numbers. Expressions are converted to Reverse
Polish Notation with the shunting-yard algorithm and evaluated on an
operand stack.

Besides one-shot evaluation it can run as an HTTP service that records
every evaluation to a SQLite history store.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, cli.ErrEvaluationFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "rpncalc.yaml", "config file path (defaults apply when missing)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// setup loads the configuration and installs the default logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, cmd.ErrOrStderr()))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.SetDefault()

	config.SetConfig(cfg)
	appConfig = cfg
	return nil
}
