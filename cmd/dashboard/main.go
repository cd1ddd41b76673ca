package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FXDashboard/internal/calculator"
	"FXDashboard/internal/charts"
	"FXDashboard/internal/collector"
	"FXDashboard/internal/config"
	"FXDashboard/internal/scheduler"
	"FXDashboard/internal/server"
	"FXDashboard/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] FXDashboard starting...")

	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] .env file not found, using environment variables only")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	start, _ := cfg.StartTime()

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Mock {
		fetcher = &collector.MockFetcher{Price: 130}
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, cfg.ModelInstruments(), cfg.Dashboard.Primary,
		cfg.Dashboard.Windows, cfg.Dashboard.PipFactor, start)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initial load; the dashboard has nothing to show without it.
	st := store.New()
	sched := scheduler.NewScheduler(ctx, col, st)
	if err := sched.RunNow(); err != nil {
		log.Fatalf("[FATAL] initial data load: %v", err)
	}
	if err := sched.RegisterRefresh(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register refresh: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	windows := make([]string, len(cfg.Dashboard.Windows))
	for i, w := range cfg.Dashboard.Windows {
		windows[i] = calculator.WindowLabel(w)
	}

	gin.SetMode(cfg.Server.GinMode)
	router := server.NewRouter(server.Options{
		Title:          cfg.Dashboard.Title,
		Windows:        windows,
		DefaultWindow:  calculator.WindowLabel(cfg.Dashboard.DefaultWindow),
		Benchmarks:     cfg.Dashboard.Benchmarks,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit:      cfg.Server.RateLimit,
	}, st, charts.NewRenderer(cfg.Dashboard.ChartWidth, cfg.Dashboard.ChartHeight))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] dashboard available at http://localhost:%s/", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] FXDashboard stopped")
}
