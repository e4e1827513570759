package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/xSp1der42/disk-site-sub000/internal/config"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/account"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/audit"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/group"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/site"
	"github.com/xSp1der42/disk-site-sub000/internal/sqlite"
	"github.com/xSp1der42/disk-site-sub000/internal/ws"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.String("config", "", "path to YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	siteRepo := sqlite.NewSiteRepository(db)
	groupRepo := sqlite.NewGroupRepository(db)
	userRepo := sqlite.NewUserRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)

	hub := ws.NewHub(logger)
	publisher := ws.NewPublisher(hub)

	auditSvc := audit.NewService(auditRepo, publisher, cfg.Audit.Retention, logger)
	siteSvc := site.NewService(siteRepo, auditSvc, publisher, logger)
	groupSvc := group.NewService(groupRepo, auditSvc, publisher, logger)
	accountSvc := account.NewService(userRepo, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := accountSvc.EnsureDefaultAdmin(ctx, "admin", "admin"); err != nil {
		logger.Error("failed to seed default admin", "error", err)
		os.Exit(1)
	}

	go auditSvc.RunRetention(ctx, cfg.Audit.SweepInterval)

	handler := ws.NewHandler(siteSvc, groupSvc, accountSvc, auditSvc, cfg.Limits.MaxAttachmentBytes, logger)
	wsServer := ws.NewServer(hub, handler, cfg.Limits.MaxMessageBytes, logger)

	router := http.NewServeMux()
	router.Handle("/ws", wsServer)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer, cancel)
}

func waitForShutdown(logger *slog.Logger, server *http.Server, cancel context.CancelFunc) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancel()

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
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
