package main

import (
	"context"
	"io"
	"net/http"
	"path/filepath"

	"campo-listings/internal/services"
	"campo-listings/internal/validators"
	"campo-listings/pkg/apiclient"
	"campo-listings/pkg/cache"
	"campo-listings/pkg/config"
	"campo-listings/pkg/logger"
	"campo-listings/pkg/metrics"
	"campo-listings/pkg/session"
)

// App holds everything a command needs.
type App struct {
	Config    *config.Config
	Store     session.Store
	Client    *apiclient.Client
	Navigator *cliNavigator

	Properties *services.PropertyService
	Contacts   *services.ContactService
	Auth       *services.AuthService
	Dashboard  *services.DashboardService

	out     io.Writer
	printer *printer
	closers []io.Closer
}

// Create and initialize a new App instance
func NewApp(cfg *config.Config, profile string, out, errOut io.Writer, format string) (*App, error) {
	app := &App{Config: cfg, out: out}

	printer, err := newPrinter(out, format)
	if err != nil {
		return nil, err
	}
	app.printer = printer

	// Initialize infrastructure
	app.initializeMetrics()
	if err := app.initializeStore(profile); err != nil {
		return nil, err
	}
	app.initializeClient(errOut)

	// Initialize business logic
	app.initializeServices()

	return app, nil
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// initialize the token store selected by the config
func (a *App) initializeStore(profile string) error {
	switch a.Config.Session.Store {
	case config.TokenStoreMemory:
		a.Store = session.NewMemoryStore()
	case config.TokenStoreRedis:
		client, err := cache.NewRedisClient(cache.ConfigFrom(a.Config))
		if err != nil {
			logger.GlobalLogger.Errorf("Failed to initialize Redis token store: %v", err)
			return err
		}
		key := a.Config.Session.RedisKey
		if profile != "" {
			key = cache.ScopedSessionTokenKey(profile)
		}
		store := session.NewRedisStore(cache.NewStore(client), key, a.Config.Session.TTL)
		a.closers = append(a.closers, store)
		a.Store = store
	default:
		path := a.Config.Session.TokenFile
		if profile != "" {
			path = filepath.Join(filepath.Dir(path), profile+".token")
		}
		a.Store = session.NewFileStore(path)
	}
	return nil
}

// initialize the API client and its auth-expired subscribers
func (a *App) initializeClient(errOut io.Writer) {
	opts := []apiclient.Option{
		apiclient.WithUserAgent(a.Config.API.UserAgent),
		apiclient.WithTimeout(a.Config.API.Timeout),
	}
	if a.Config.API.StrictDecoding {
		opts = append(opts, apiclient.WithStrictDecoding())
	}
	a.Client = apiclient.New(a.Config.API.BaseURL, a.Store, opts...)

	a.Navigator = newNavigator("/admin", errOut)
	a.Client.OnAuthExpired(func(_ context.Context, resp *http.Response) {
		logger.GlobalLogger.Warnf("Session expired: status=%d, url=%s", resp.StatusCode, resp.Request.URL.Redacted())
	})
	a.Client.OnAuthExpired(apiclient.NewLoginRedirector(a.Navigator, a.Config.Session.LoginPath))
}

// initialize all services
func (a *App) initializeServices() {
	a.Properties = services.NewPropertyService(a.Client, validators.NewPropertyValidator())
	a.Contacts = services.NewContactService(a.Client, validators.NewContactValidator())
	a.Auth = services.NewAuthService(a.Client, a.Store, validators.NewUserValidator())
	a.Dashboard = services.NewDashboardService(a.Client)
}

// cleanup operations
func (a *App) cleanup() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			logger.GlobalLogger.Debugf("Failed to close resource: %v", err)
		}
	}
}
