package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	mcpadapter "github.com/kirillkom/resume-ranker/internal/adapters/mcp"
	"github.com/kirillkom/resume-ranker/internal/bootstrap"
	"github.com/kirillkom/resume-ranker/internal/config"
	"github.com/kirillkom/resume-ranker/internal/observability/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	// stdout carries the MCP stream.
	logger := logging.New(os.Stderr, "resume-ranker-mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := bootstrap.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	if err := mcpadapter.NewTools(app.Ranker, app.Comparer, logger).ServeStdio(); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
