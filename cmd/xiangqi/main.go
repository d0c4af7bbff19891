package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/park285/Cheese-Xiangqi/internal/config"
	"github.com/park285/Cheese-Xiangqi/internal/obslog"
	"github.com/park285/Cheese-Xiangqi/internal/tui"
	"github.com/park285/Cheese-Xiangqi/internal/xiangqibuilder"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// The console belongs to the TUI; logs go to the file sink only.
	logOpts := cfg.LogOptions()
	logOpts.Console = false
	logger, err := obslog.Init(logOpts)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()

	deps, err := xiangqibuilder.New(cfg, logger)
	if err != nil {
		log.Fatalf("xiangqi init error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, deps, cfg.SessionTTL, logger)

	runErr := tui.Run(ctx, tui.Options{
		Service:     deps.Service,
		Formatter:   deps.Formatter,
		SnapshotDir: cfg.SnapshotDir,
		Logger:      logger,
	})
	if err := deps.Close(); err != nil {
		logger.Warn("xiangqi_close_failed", zap.Error(err))
	}
	if runErr != nil && ctx.Err() == nil {
		log.Fatalf("tui error: %v", runErr)
	}
	logger.Info("xiangqi_exit")
}

// sweepSessions evicts idle sessions until ctx is done.
func sweepSessions(ctx context.Context, deps *xiangqibuilder.Deps, ttl time.Duration, logger *zap.Logger) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := deps.Service.Evict(now); n > 0 {
				logger.Info("session_sweep", zap.Int("evicted", n))
			}
		}
	}
}
