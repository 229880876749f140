// Package main provides the scriptorium binary entry point.
// Scriptorium is a Bible translation pipeline: it imports OSIS source
// editions, drives LLM translation and polish passes under a charter,
// applies deterministic style rules, and renders the result.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	// Register LLM providers via init()
	_ "github.com/inkhorn/scriptorium/llm/providers"

	"github.com/inkhorn/scriptorium/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "scriptorium"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by all subcommands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	var (
		configPath  string
		logLevel    string
		metricsAddr string
	)

	application := &app{}

	cmd := &cobra.Command{
		Use:   "scriptorium",
		Short: "Bible translation pipeline",
		Long: `Scriptorium renders Scripture into Modern Sacral English.

The pipeline runs in ordered phases:
- import: parse OSIS XML editions into the verse corpus
- translate: LLM translation of source text under the charter
- polish: LLM cadence revision with drift guards and style enforcement
- pronouns: KJV-gated pronoun capitalization (no LLM)
- suggest/apply: human-gated capitalization review
- render: USFM, text, and Markdown output`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(logLevel)
			application.logger = logger

			cfg, err := loadConfig(configPath, logger)
			if err != nil {
				return err
			}
			application.cfg = cfg

			if metricsAddr != "" {
				go serveMetrics(metricsAddr, logger)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	cmd.AddCommand(
		importCmd(application),
		translateCmd(application),
		polishCmd(application),
		pronounsCmd(application),
		suggestCmd(application),
		applyCmd(application),
		renderCmd(application),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

func setupLogging(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return cfg, nil
	}
	return config.NewLoader(logger).Load()
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server failed", "error", err)
	}
}
