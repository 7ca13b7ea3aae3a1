// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// SessionGuard tracks the signed-in identity. DocumentService and
// AuthService route every remote call through it so that no request
// leaves without a fresh bearer token.
package services
