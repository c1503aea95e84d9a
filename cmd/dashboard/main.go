package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	router "github.com/goliatone/go-router"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type cli struct {
	Addr            string        `default:":8080" env:"DASHBOARD_ADDR" help:"Listen address."`
	APIBaseURL      string        `name:"api-base-url" default:"http://localhost:5000/api/v1" env:"API_BASE_URL" help:"Base URL of the Mkulima REST API."`
	APITimeout      time.Duration `name:"api-timeout" default:"30s" env:"API_TIMEOUT" help:"Per-attempt timeout for API requests."`
	RetryAttempts   int           `name:"retry-attempts" default:"0" env:"API_RETRY_ATTEMPTS" help:"Extra attempts for GET requests that fail at the network level."`
	Storage         string        `default:"file" enum:"memory,file,sqlite" env:"DASHBOARD_STORAGE" help:"Durable storage backend (memory, file, sqlite)."`
	StoragePath     string        `name:"storage-path" default:"mkulima-dashboard.json" env:"DASHBOARD_STORAGE_PATH" type:"path" help:"Path of the file or SQLite storage."`
	Identity        string        `default:"demo" enum:"demo,api" env:"DASHBOARD_IDENTITY" help:"Who authenticates operators: the built-in demo account or POST /login on the API."`
	JWTSecret       string        `name:"jwt-secret" default:"mkulima-dev-secret" env:"DASHBOARD_JWT_SECRET" help:"HS256 secret for demo identity tokens."`
	Pages           string        `type:"path" env:"DASHBOARD_PAGES" help:"Page manifest overriding the embedded one."`
	ChartAssetsHost string        `name:"chart-assets-host" env:"DASHBOARD_CHART_ASSETS_HOST" help:"CDN host for the ECharts scripts."`
	ForwardDiseases bool          `name:"forward-diseases" env:"DASHBOARD_FORWARD_DISEASES" help:"Forward submitted diseases to POST /diseases instead of only logging them."`
	SecureCookie    bool          `name:"secure-cookie" env:"DASHBOARD_SECURE_COOKIE" help:"Mark the session cookie Secure. Enable when served over TLS."`
	LogDev          bool          `name:"log-dev" env:"DASHBOARD_LOG_DEV" help:"Use the development logger."`
}

func main() {
	_ = godotenv.Load()

	var cfg cli
	kctx := kong.Parse(&cfg,
		kong.Name("dashboard"),
		kong.Description("Mkulima AI admin dashboard."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(run(cfg))
}

func run(cfg cli) error {
	logger, err := newLogger(cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := router.NewFiberAdapter()
	app, err := newApp(ctx, cfg, server.Router(), logger)
	if err != nil {
		return err
	}
	defer app.Close()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dashboard listening",
			zap.String("addr", cfg.Addr),
			zap.String("api", app.client.BaseURL()),
			zap.Int("sessions", app.sessions.Len()),
		)
		errCh <- server.Serve(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("dashboard: shutdown: %w", err)
	}
	return nil
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
