package domain

const unknownDescription = "Unknown"

// DefaultBaseURL is the address of a locally running document service.
const DefaultBaseURL = "http://localhost:8080"

// CredentialProviderType identifies how bearer tokens are obtained.
type CredentialProviderType string

// Available credential providers.
const (
	// ProviderFirebase signs in with email and password against the
	// Firebase Identity Toolkit and refreshes ID tokens as they expire.
	ProviderFirebase CredentialProviderType = "firebase"

	// ProviderStatic uses a pre-issued token from configuration or the
	// environment.
	ProviderStatic CredentialProviderType = "static"
)

// IsValid returns true if the provider type is recognised.
func (p CredentialProviderType) IsValid() bool {
	switch p {
	case ProviderFirebase, ProviderStatic:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p CredentialProviderType) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p CredentialProviderType) Description() string {
	switch p {
	case ProviderFirebase:
		return "Firebase (email and password)"
	case ProviderStatic:
		return "Static token"
	default:
		return unknownDescription
	}
}

// APISettings holds remote service configuration.
type APISettings struct {
	// BaseURL is the document service root, without the /v1 prefix.
	BaseURL string

	// RateLimit caps outgoing requests per second. Zero disables throttling.
	RateLimit float64
}

// AuthSettings holds credential provider configuration.
type AuthSettings struct {
	// Provider selects the credential provider.
	Provider CredentialProviderType

	// FirebaseAPIKey is the web API key of the Firebase project.
	FirebaseAPIKey string

	// Token is the static bearer token (ProviderStatic only).
	Token string
}

// IsConfigured returns true if the selected provider has what it needs.
func (a AuthSettings) IsConfigured() bool {
	switch a.Provider {
	case ProviderFirebase:
		return a.FirebaseAPIKey != ""
	case ProviderStatic:
		return a.Token != ""
	default:
		return false
	}
}

// AppSettings holds all application configuration.
type AppSettings struct {
	API  APISettings
	Auth AuthSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			BaseURL: DefaultBaseURL,
		},
		Auth: AuthSettings{
			Provider: ProviderFirebase,
		},
	}
}
