// Package cli implements the fatawa command line using cobra.
package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driving"
	"github.com/salafifatawa/fatawa-cli/internal/logger"
)

// annotationSkipServices marks commands that run without the core services.
const annotationSkipServices = "fatawa/skip-services"

// annotationWatchSession marks long-running commands that follow sign-in
// changes made by other processes.
const annotationWatchSession = "fatawa/watch-session"

var version = "dev"

var (
	verbose   bool
	configDir string
)

var (
	sessionGuard    driving.SessionGuard
	documentService driving.DocumentService
	authService     driving.AuthService
	settingsService driving.SettingsService
	metricsHandler  http.Handler
	closeServices   func()
)

// bootstrap builds services lazily once flags are parsed.
var bootstrap Bootstrap

// Options carries the parsed global flags to a Bootstrap function.
type Options struct {
	// ConfigDir overrides the default configuration directory when set.
	ConfigDir string
	// Watch is true for long-running commands that should pick up
	// sign-in changes made by other processes.
	Watch bool
}

// Services holds the core services used by commands.
type Services struct {
	Guard     driving.SessionGuard
	Documents driving.DocumentService
	Auth      driving.AuthService
	Settings  driving.SettingsService
	// Metrics serves the Prometheus registry. Optional.
	Metrics http.Handler
	// Close releases watchers and subscriptions. Optional.
	Close func()
}

// Bootstrap builds Services for a command run.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "fatawa",
	Short: "Search and publish fatawa from the terminal",
	Long: `fatawa is a client for the fatawa document service.

Sign in once, then search, read, list and publish question and answer
records from the command line, the interactive terminal UI, or an MCP
server for AI assistants.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
	PersistentPostRun: teardownServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.fatawa)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services after flags are parsed.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices injects already-built services.
func SetServices(s *Services) {
	if s == nil {
		sessionGuard = nil
		documentService = nil
		authService = nil
		settingsService = nil
		metricsHandler = nil
		closeServices = nil
		return
	}
	sessionGuard = s.Guard
	documentService = s.Documents
	authService = s.Auth
	settingsService = s.Settings
	metricsHandler = s.Metrics
	closeServices = s.Close
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[annotationSkipServices] == "true" {
		return nil
	}
	if bootstrap == nil || documentService != nil {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Section("Bootstrap")
	services, err := bootstrap(ctx, Options{
		ConfigDir: configDir,
		Watch:     cmd.Annotations[annotationWatchSession] == "true",
	})
	if err != nil {
		return err
	}
	if services == nil {
		return errors.New("bootstrap returned no services")
	}
	SetServices(services)
	return nil
}

func teardownServices(_ *cobra.Command, _ []string) {
	if closeServices != nil {
		closeServices()
		closeServices = nil
	}
}
