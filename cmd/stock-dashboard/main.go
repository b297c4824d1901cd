package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockdash/internal/api"
	"stockdash/internal/catalog"
	"stockdash/internal/chart"
	"stockdash/internal/config"
	"stockdash/internal/dashboard"
	"stockdash/internal/domain"
	"stockdash/internal/httpapi"
	"stockdash/internal/source"
	"stockdash/internal/util"
)

func main() {
	_ = godotenv.Load()

	// Load config.
	cfgPath := "config/stockdash.yaml"
	if p := os.Getenv("STOCKDASH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// Setup logging.
	logger := util.NewLogger(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Open upstreams and load the catalog once; the process does not serve
	// without it.
	sources, err := source.Open(cfg, logger)
	if err != nil {
		log.Fatalf("opening sources: %v", err)
	}
	defer sources.Close()

	loadCtx, loadCancel := context.WithTimeout(ctx, 60*time.Second)
	cat, err := catalog.Load(loadCtx, sources.Directory, logger)
	loadCancel()
	if err != nil {
		log.Fatalf("loading symbol catalog: %v", err)
	}

	minDate, _ := domain.ParseDate(cfg.Dashboard.MinDate)
	builder := chart.NewBuilder(sources.Bars, logger)
	svc := dashboard.NewService(cat, builder, logger)
	web := httpapi.NewDashboardServer(svc, cfg.Dashboard.Title, minDate, logger)

	srv := api.NewServer(cfg, web.Handler(), logger)
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
