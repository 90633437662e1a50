package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"strings"

	"github.com/foomo/reportviewer/mcp"
	"github.com/foomo/reportviewer/nav"
	"github.com/foomo/reportviewer/page"
	"github.com/foomo/reportviewer/record"
	"github.com/foomo/reportviewer/service"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	stdioMode := flag.Bool("stdio", true, "Run the MCP server in stdio mode")
	httpAddr := flag.String("http", "", "HTTP server address for the viewer (e.g., ':8080')")
	endpoint := flag.String("endpoint", "/mcp", "Path of the MCP endpoint on the HTTP server")
	records := flag.String("records", ".", "Base URL or directory holding proyectos/{course}-proyecto{n}.json")
	catalogPath := flag.String("catalog", "", "YAML catalog of courses and projects (defaults to the built-in one)")
	logMode := flag.String("log-mode", "dev", "Logger mode: dev or prod")
	flag.Parse()

	logger := newLogger(*logMode)
	defer func() { _ = logger.Sync() }()

	catalog := nav.DefaultCatalog()
	if *catalogPath != "" {
		c, err := nav.LoadCatalog(*catalogPath)
		if err != nil {
			logger.Fatal("failed to load catalog", zap.String("path", *catalogPath), zap.Error(err))
		}
		catalog = c
	}

	registry := prometheus.NewRegistry()
	baseURL, httpClient := record.Source(*records, nil)
	loader := record.NewLoader(
		logger.Named("record"),
		baseURL,
		httpClient,
		record.LoaderWithMetrics(record.NewMetrics(registry)),
	)

	s := mcp.NewServer(service.NewService(logger, catalog, loader))

	if *httpAddr != "" {
		sseServer := mcp.NewSSEServer(logger.Named("sse"), nil)
		defer sseServer.Close()

		viewer, err := service.NewViewer(
			logger.Named("viewer"),
			catalog,
			loader,
			strings.NewReader(page.Skeleton),
			service.ViewerWithObserver(sseServer.Publish),
		)
		if err != nil {
			logger.Fatal("failed to create viewer", zap.Error(err))
		}
		if err := viewer.Init(context.Background()); err != nil {
			logger.Warn("failed to load first project", zap.Error(err))
		}

		logger.Info("Starting viewer on HTTP address", zap.String("addr", *httpAddr), zap.String("mcp", *endpoint))
		handler := mcp.NewViewerHTTPServer(logger.Named("http"), s, viewer, sseServer, *endpoint, registry)
		if err := http.ListenAndServe(*httpAddr, handler); err != nil {
			logger.Error("HTTP server stopped", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if !*stdioMode {
		logger.Fatal("nothing to serve: set -http or -stdio")
	}
	logger.Info("Starting MCP server in stdio mode...")
	if err := server.ServeStdio(s); err != nil {
		logger.Fatal("MCP server stopped", zap.Error(err))
	}
}

func newLogger(mode string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	switch strings.ToLower(mode) {
	case "prod", "production":
		logger, err = zap.NewProduction()
	default:
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
