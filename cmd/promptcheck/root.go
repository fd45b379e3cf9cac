package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lukitun/Jahbreak/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// logLevel overrides LOG_LEVEL.
	logLevel string
	// rubricPath overrides RUBRIC_CONFIG_PATH.
	rubricPath string
	// jsonOutput switches rendering from styled text to JSON.
	jsonOutput bool

	// errRejected marks a run that completed but whose verdict was a failure.
	errRejected = errors.New("evaluation did not pass")

	deps *setup.Dependencies
)

var rootCmd = &cobra.Command{
	Use:   "promptcheck",
	Short: "Score generated prompts against the quality rubric",
	Long: `promptcheck evaluates generated prompts offline with the same engine the
API, MCP server and stream consumer use.

Exit status is 0 when every evaluation passed, 2 when an evaluation was
rejected and 1 on any other error.`,
	SilenceUsage:      true,
	PersistentPreRunE: wireDependencies,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rubricPath, "rubric", "", "Path to a rubric YAML file overriding the embedded one")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of styled text")
}

func wireDependencies(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	if rubricPath != "" {
		if err := os.Setenv("RUBRIC_CONFIG_PATH", rubricPath); err != nil {
			return fmt.Errorf("set rubric path: %w", err)
		}
	}

	cfg := setup.LoadConfig()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(lvl)
	logger := log.Logger

	deps, err = setup.Wire(cmd.Context(), cfg, &logger)
	if err != nil {
		return fmt.Errorf("wire dependencies: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// readText loads prompt text from a file, or from stdin when path is "-".
func readText(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
