// Package domain defines the core business entities for fatawa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A fatwa record as persisted by the remote repository
//   - DocumentDraft: The fields submitted to create a Document
//   - Identity: The signed-in principal reported by the credential provider
//   - SessionState: The tri-state authentication snapshot
//   - Outcome: The uniform success/failure result of every document operation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
