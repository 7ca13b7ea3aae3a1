// Command fatawa is the terminal client for the fatawa document service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driven/auth"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driven/config/file"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driven/metrics"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driven/remote"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/cli"
	"github.com/salafifatawa/fatawa-cli/internal/core/services"
	"github.com/salafifatawa/fatawa-cli/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the driven adapters into the core services.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	dir := opts.ConfigDir
	if dir == "" {
		var err error
		if dir, err = file.DefaultDir(); err != nil {
			return nil, fmt.Errorf("resolving config directory: %w", err)
		}
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	sessionStore, err := file.NewSessionStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	provider, err := auth.NewProvider(settings.Auth, sessionStore)
	if err != nil {
		// Config commands must still work so the user can fix the settings.
		logger.Warn("Credential provider unavailable: %v", err)
		provider = &auth.Provider{Credentials: auth.NewStaticProvider("")}
	}

	var watcher *file.SessionWatcher
	if fb := provider.Firebase; fb != nil {
		if err := fb.Restore(ctx); err != nil {
			logger.Warn("Restoring session: %v", err)
		}
		if opts.Watch {
			watcher = startWatcher(ctx, sessionStore.Path(), fb.Restore)
		}
	}

	guard := services.NewSessionGuard(provider.Credentials)

	client := remote.NewClient(
		settings.API.BaseURL,
		remote.WithRateLimit(settings.API.RateLimit),
		remote.WithUserAgent("fatawa/"+version),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	documentService := services.NewDocumentService(guard, client)
	documentService.SetRecorder(collector)
	authService := services.NewAuthService(guard, provider.Authenticator, client)
	authService.SetRecorder(collector)

	logger.Debug("Services ready (config %s, service %s)", dir, settings.API.BaseURL)

	return &cli.Services{
		Guard:     guard,
		Documents: documentService,
		Auth:      authService,
		Settings:  settingsService,
		Metrics:   metrics.Handler(registry),
		Close: func() {
			if watcher != nil {
				if err := watcher.Stop(); err != nil {
					logger.Warn("Stopping session watcher: %v", err)
				}
			}
			guard.Close()
		},
	}, nil
}

// startWatcher re-reads the session file when another process signs in or
// out. A watcher that cannot start is logged and skipped.
func startWatcher(ctx context.Context, path string, onChange func(context.Context) error) *file.SessionWatcher {
	watcher, err := file.NewSessionWatcher(path, onChange)
	if err != nil {
		logger.Warn("Session watcher disabled: %v", err)
		return nil
	}
	if err := watcher.Start(ctx); err != nil {
		logger.Warn("Session watcher disabled: %v", err)
		_ = watcher.Stop()
		return nil
	}
	return watcher
}
