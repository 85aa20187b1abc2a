package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/joblens/internal/config"
)

var (
	cfgPath string
	debug   bool
)

// rootCmd runs the HTTP service when invoked with no subcommand.
var rootCmd = &cobra.Command{
	Use:          "joblens",
	Short:        "Job search across many boards at once",
	Long:         "joblens searches several job boards in parallel and returns one normalized, deduplicated and ranked list.",
	RunE:         runServe,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: "+config.EnvConfigPath+" env var or ./"+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: --config > JOBLENS_CONFIG > ./config.yaml > built-in defaults.
func loadConfig(logger *slog.Logger) (*config.Config, error) {
	cfg, path, err := config.Resolve(cfgPath)
	if err != nil {
		return nil, err
	}
	if path == "" {
		logger.Debug("no config file found, using defaults")
	} else {
		logger.Debug("config loaded", "path", path)
	}
	return cfg, nil
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// cliLogger is the logger for one-shot commands. Their stdout carries results,
// so logs go to stderr and only warnings show unless --debug is set. A TUI
// owns the terminal, so quiet discards everything.
func cliLogger(dbg, quiet bool) *slog.Logger {
	if quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logLevel := slog.LevelWarn
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
