package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lukitun/Jahbreak/internal/api"
	"github.com/lukitun/Jahbreak/internal/mcpadapter"
	"github.com/lukitun/Jahbreak/internal/setup"
	applog "github.com/lukitun/Jahbreak/internal/setup/logger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	// Load env
	_ = godotenv.Load()

	cfg := setup.LoadConfig()

	// Stdout carries the protocol, logs go to stderr
	logger := applog.New(cfg.LogLevel)

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry := setup.SetupTelemetry(ctx, cfg, &logger)
	defer func() { _ = shutdownTelemetry(context.Background()) }()

	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "prompt-quality",
			Version: api.Version,
		}, nil,
	)
	mcpadapter.RegisterTools(server, deps.Executor, deps.CompareExecutor)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}
