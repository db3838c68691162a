package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-fnol-router/internal/config"
	"github.com/a3tai/mcp-fnol-router/internal/fnol"
	"github.com/a3tai/mcp-fnol-router/internal/logging"
	"github.com/a3tai/mcp-fnol-router/internal/mcp"
	"github.com/a3tai/mcp-fnol-router/internal/pdf"
	"github.com/a3tai/mcp-fnol-router/internal/pdf/extraction"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	applyBuildVersion(cfg)

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsDebug() {
		logger.Debug("starting with configuration", zap.String("config", cfg.String()))
	}

	server, err := newServer(cfg, logger)
	if err != nil {
		logger.Error("failed to create MCP server", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// newServer wires the field map, extraction chain and claim service into an MCP server
func newServer(cfg *config.Config, logger *zap.Logger) (*mcp.Server, error) {
	fieldMap, err := cfg.LoadFieldMap()
	if err != nil {
		return nil, err
	}

	chain := extraction.NewDefaultChain(cfg.ChainOptions(), logger)
	service, err := pdf.NewService(cfg.MaxFileSize, cfg.ClaimsDirectory, chain, fnol.NewMapper(fieldMap), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create claim service: %w", err)
	}

	return mcp.NewServer(cfg, service, logger)
}

func applyBuildVersion(cfg *config.Config) {
	if version != "dev" {
		cfg.Version = version
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("MCP FNOL Router\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
