package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tpillow01/Tynan-Leads-Tracker/internal/api"
	"github.com/tpillow01/Tynan-Leads-Tracker/internal/config"
	"github.com/tpillow01/Tynan-Leads-Tracker/internal/playbook"
	"github.com/tpillow01/Tynan-Leads-Tracker/internal/store"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "leadtracker",
	Short: "Tynan Leads Tracker - dealership lead CRM",
	RunE:  runServe,
}

func main() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(fixDatesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// Signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	initLogger(cfg)
	slog.Info("configuration loaded")

	// Store init runs migrations and enables WAL mode
	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	generator := newGenerator(cfg)
	if model := generator.ModelName(); model != "" {
		slog.Info("playbook refinement enabled", "model", model)
	} else {
		slog.Info("playbook refinement disabled, serving deterministic briefs")
	}

	handler := api.NewHandler(db, generator, cfg.Auth.APIKey, Version, cfg.Import.MaxUploadBytes)
	router := api.NewRouter(handler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error on graceful Shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	// Drain in-flight requests before closing the store
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// newGenerator wires the playbook generator, with OpenAI refinement
// only when a key is configured.
func newGenerator(cfg *config.Config) *playbook.Generator {
	if cfg.Playbook.APIKey == "" {
		return playbook.NewGenerator(nil)
	}
	enhancer := playbook.NewOpenAI(cfg.Playbook.APIKey, cfg.Playbook.Model, cfg.Playbook.Temperature)
	return playbook.NewGenerator(enhancer)
}

func initLogger(cfg *config.Config) {
	level := parseLogLevel(cfg.Log.Level)
	var handler slog.Handler
	if cfg.Log.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openLocalStore loads local config and opens the store for the
// maintenance subcommands.
func openLocalStore() (*store.SQLiteStore, *config.Config, error) {
	cfg, err := config.LoadLocal()
	if err != nil {
		return nil, nil, err
	}
	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}
