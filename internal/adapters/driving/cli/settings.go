package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salafifatawa/fatawa-cli/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change settings stored in config.toml.

Keys:
  api.base_url           document service root (default http://localhost:8080)
  api.rate_limit         maximum requests per second, 0 for no limit
  auth.provider          firebase or static
  auth.firebase_api_key  web API key of the Firebase project
  auth.token             pre-issued token for the static provider`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting and save it immediately.

Examples:
  fatawa config set api.base_url https://fatawa.example.com
  fatawa config set auth.provider static`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[API]")
	cmd.Printf("  Base URL: %s\n", settings.API.BaseURL)
	if settings.API.RateLimit > 0 {
		cmd.Printf("  Rate limit: %g req/s\n", settings.API.RateLimit)
	} else {
		cmd.Println("  Rate limit: none")
	}
	cmd.Println()

	cmd.Println("[Auth]")
	cmd.Printf("  Provider: %s\n", settings.Auth.Provider.Description())
	if settings.Auth.FirebaseAPIKey != "" {
		cmd.Printf("  Firebase API key: %s\n", maskSecret(settings.Auth.FirebaseAPIKey))
	} else {
		cmd.Println("  Firebase API key: (not set)")
	}
	if settings.Auth.Token != "" {
		cmd.Printf("  Token: %s\n", maskSecret(settings.Auth.Token))
	}
	status := "configured"
	if !settings.Auth.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	if path := settingsService.Path(); path != "" {
		cmd.Printf("Config file: %s\n", path)
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := strings.TrimSpace(args[0])
	if err := settingsService.Set(key, args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w (known keys: %s)",
			key, err, strings.Join(services.SettingKeys, ", "))
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func maskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
