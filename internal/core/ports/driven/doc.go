// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CredentialProvider: Reports the signed-in identity and issues bearer tokens
//   - DocumentRemote: Talks to the remote document service
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Authenticator: Interactive sign-in. Absent for providers that take a
//     pre-issued token.
//   - SessionStore: Persists provider sessions between runs.
//   - OutcomeRecorder: Records operation outcomes for metrics.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
