package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard/commands"
	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard/gorouter"
	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard/httpapi"
	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard/queries"
	"github.com/mkulima-ai/mkulima-dashboard/pkg/api"
	"github.com/mkulima-ai/mkulima-dashboard/pkg/auth"
	"github.com/mkulima-ai/mkulima-dashboard/pkg/storage"
)

// app holds the wired process. Close releases durable storage.
type app struct {
	storage  storage.Store
	client   *api.HTTPClient
	sessions *auth.Store
	service  *dashboard.Service
	executor *httpapi.CommandExecutor
}

func (a *app) Close() error {
	return a.storage.Close()
}

func newApp(ctx context.Context, cfg cli, r gorouter.Registrar, logger *zap.Logger) (*app, error) {
	kv, err := storage.Open(cfg.Storage, cfg.StoragePath)
	if err != nil {
		return nil, err
	}
	a := &app{storage: kv}
	if err := a.wire(ctx, cfg, r, logger); err != nil {
		_ = kv.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context, cfg cli, r gorouter.Registrar, logger *zap.Logger) error {
	client, err := api.NewHTTPClient(api.HTTPConfig{
		BaseURL:       cfg.APIBaseURL,
		Tokens:        api.SessionTokens{},
		Timeout:       cfg.APITimeout,
		RetryAttempts: cfg.RetryAttempts,
		Logger:        logger.Named("api"),
	})
	if err != nil {
		return err
	}
	a.client = client

	authCfg := auth.Config{Storage: a.storage, Logger: logger.Named("auth")}
	switch cfg.Identity {
	case "api":
		authCfg.Identity = api.NewIdentity(client.Auth)
	default:
		demo, err := auth.NewDemoIdentity([]byte(cfg.JWTSecret))
		if err != nil {
			return err
		}
		authCfg.Identity = demo
		authCfg.Verifier = demo
	}
	sessions, err := auth.NewStore(authCfg)
	if err != nil {
		return err
	}
	a.sessions = sessions
	if err := sessions.Restore(ctx); err != nil {
		logger.Warn("session restore failed", zap.Error(err))
	}

	manifest, err := loadManifest(cfg.Pages)
	if err != nil {
		return err
	}
	telemetry := dashboard.NewZapTelemetry(logger.Named("telemetry"))
	farmers := dashboard.NewStaticFarmerDirectory(dashboard.SeedFarmers())
	diseases := dashboard.NewStaticDiseaseCatalog(dashboard.SeedDiseases())
	var chartOpts []dashboard.ChartOption
	if cfg.ChartAssetsHost != "" {
		chartOpts = append(chartOpts, dashboard.WithChartAssetsHost(cfg.ChartAssetsHost))
	}
	validator := dashboard.NewJSONSchemaValidator()

	service, err := dashboard.NewService(dashboard.Options{
		Manifest:        manifest,
		ConfigValidator: validator,
		Translator:      dashboard.DefaultCatalogTranslator(),
		Telemetry:       telemetry,
		Logger:          logger.Named("dashboard"),
		Deps: dashboard.ProviderDeps{
			Repositories: client.Repositories(),
			Charts:       dashboard.NewChartRenderer(chartOpts...),
			Farmers:      farmers,
			Diseases:     diseases,
		},
	})
	if err != nil {
		return fmt.Errorf("dashboard: build service: %w", err)
	}
	a.service = service

	var sink dashboard.DiseaseSink = dashboard.NewLoggingDiseaseSink(logger.Named("diseases"))
	if cfg.ForwardDiseases {
		sink = api.NewDiseaseForwarder(client.Diseases, logger.Named("diseases"))
	}
	prefs := dashboard.NewStoragePreferenceStore(a.storage)

	a.executor = &httpapi.CommandExecutor{
		LoginCommander:       commands.NewLoginCommand(sessions, telemetry),
		LogoutCommander:      commands.NewLogoutCommand(sessions, telemetry),
		DiseaseCommander:     commands.NewSubmitDiseaseCommand(sink, validator, telemetry),
		PreferencesCommander: commands.NewSavePreferencesCommand(prefs, telemetry),
		PageQuerier:          queries.NewPageQuery(service),
		SessionQuerier:       queries.NewSessionQuery(sessions),
	}

	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("dashboard: load templates: %w", err)
	}
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Service:  a.executor,
		Renderer: renderer,
	})
	return gorouter.Register(gorouter.Config{
		Router:       r,
		Controller:   controller,
		API:          a.executor,
		Sessions:     sessions,
		Manifest:     manifest,
		Preferences:  prefs,
		Farmers:      farmers,
		Diseases:     diseases,
		SecureCookie: cfg.SecureCookie,
		Logger:       logger.Named("http"),
	})
}

func loadManifest(path string) (*dashboard.PageManifest, error) {
	if path == "" {
		return dashboard.DefaultPageManifest()
	}
	return dashboard.ReadManifest(path)
}
