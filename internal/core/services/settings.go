package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driven"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyBaseURL        = "api.base_url"
	KeyRateLimit      = "api.rate_limit"
	KeyProvider       = "auth.provider"
	KeyFirebaseAPIKey = "auth.firebase_api_key"
	KeyToken          = "auth.token"
)

// SettingKeys lists every key accepted by Set, in display order.
var SettingKeys = []string{KeyBaseURL, KeyRateLimit, KeyProvider, KeyFirebaseAPIKey, KeyToken}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, filling in defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			BaseURL:   s.getString(KeyBaseURL, defaults.API.BaseURL),
			RateLimit: s.configStore.GetFloat(KeyRateLimit),
		},
		Auth: domain.AuthSettings{
			Provider:       s.getProvider(defaults.Auth.Provider),
			FirebaseAPIKey: s.configStore.GetString(KeyFirebaseAPIKey),
			Token:          s.configStore.GetString(KeyToken),
		},
	}
	if settings.API.RateLimit < 0 {
		settings.API.RateLimit = 0
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(KeyBaseURL, settings.API.BaseURL); err != nil {
		return fmt.Errorf("save base_url: %w", err)
	}
	if err := s.configStore.Set(KeyRateLimit, settings.API.RateLimit); err != nil {
		return fmt.Errorf("save rate_limit: %w", err)
	}
	if err := s.configStore.Set(KeyProvider, settings.Auth.Provider.String()); err != nil {
		return fmt.Errorf("save provider: %w", err)
	}
	if settings.Auth.FirebaseAPIKey != "" {
		if err := s.configStore.Set(KeyFirebaseAPIKey, settings.Auth.FirebaseAPIKey); err != nil {
			return fmt.Errorf("save firebase_api_key: %w", err)
		}
	}
	if settings.Auth.Token != "" {
		if err := s.configStore.Set(KeyToken, settings.Auth.Token); err != nil {
			return fmt.Errorf("save token: %w", err)
		}
	}

	return s.configStore.Save()
}

// Set updates a single key and persists it.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	switch key {
	case KeyBaseURL:
		if err := validateBaseURL(value); err != nil {
			return err
		}
		settings.API.BaseURL = strings.TrimRight(value, "/")
	case KeyRateLimit:
		limit, err := strconv.ParseFloat(value, 64)
		if err != nil || limit < 0 {
			return fmt.Errorf("%w: rate_limit must be a non-negative number", domain.ErrInvalidInput)
		}
		settings.API.RateLimit = limit
	case KeyProvider:
		provider := domain.CredentialProviderType(value)
		if !provider.IsValid() {
			return fmt.Errorf("%w: %s", domain.ErrUnsupportedType, value)
		}
		settings.Auth.Provider = provider
	case KeyFirebaseAPIKey:
		settings.Auth.FirebaseAPIKey = value
	case KeyToken:
		settings.Auth.Token = value
	default:
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := validateBaseURL(settings.API.BaseURL); err != nil {
		return err
	}
	if settings.Auth.Provider == domain.ProviderFirebase && settings.Auth.FirebaseAPIKey == "" {
		return fmt.Errorf("%w: %s is required for the firebase provider", domain.ErrInvalidInput, KeyFirebaseAPIKey)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getProvider(defaultVal domain.CredentialProviderType) domain.CredentialProviderType {
	if v := s.configStore.GetString(KeyProvider); v != "" {
		p := domain.CredentialProviderType(v)
		if p.IsValid() {
			return p
		}
	}
	return defaultVal
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base_url must be an http(s) URL, got %q", domain.ErrInvalidInput, raw)
	}
	return nil
}
