// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the user's ~/.fatawa directory.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - SessionStore: JSON session file for the firebase credential provider
//   - SessionWatcher: reloads the session when another process changes it
package file
