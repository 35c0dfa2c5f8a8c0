// Entry point for the docproc HTTP service — chi router, SQLite journal,
// optional MCP stdio transport.
package main

import (
	"context"
	"embed"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yurkit/docproc/doctext"
	"github.com/yurkit/docproc/journal"
	"github.com/yurkit/docproc/service"
)

//go:embed static
var staticFS embed.FS

func main() {
	cfg := service.DefaultConfig()
	if path := os.Getenv("CONFIG"); path != "" {
		loaded, err := service.LoadConfig(path)
		if err != nil {
			slog.Error("load config", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Listen = ":" + port
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if pw := os.Getenv("AUTH_PASSWORD"); pw != "" {
		cfg.AuthPassword = pw
	}

	// Logging.
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Journal DB.
	db, err := journal.Open(cfg.DBPath, journal.WithMkdirAll())
	if err != nil {
		slog.Error("journal db", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	store := journal.NewStore(db)
	if err := store.Init(); err != nil {
		slog.Error("journal init", "error", err)
		os.Exit(1)
	}

	// Extraction pipeline.
	pipe := doctext.New(doctext.Config{
		MaxFileSize: int64(cfg.MaxFileMB) * 1024 * 1024,
		Converter:   &doctext.ExecConverter{Commands: cfg.Converters},
		Logger:      logger,
	})

	svc := service.New(pipe, store, logger)
	if err := svc.SetPassword(cfg.AuthPassword); err != nil {
		slog.Error("auth password", "error", err)
		os.Exit(1)
	}

	// Optional MCP over stdio.
	if os.Getenv("MCP_TRANSPORT") == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "docproc",
			Version: "1.0.0",
		}, nil)
		svc.RegisterMCP(mcpSrv)
		go func() {
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("MCP stdio", "error", err)
			}
		}()
	}

	// Router.
	r := chi.NewRouter()
	svc.RegisterHTTP(r)

	// Documentation page.
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("static/index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "listen", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}
