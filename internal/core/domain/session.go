package domain

import "time"

// SessionStatus is the authentication status tracked by the session guard.
type SessionStatus int

const (
	// SessionUnknown is the initial status before the credential provider
	// has reported. Presentation layers treat it as "loading".
	SessionUnknown SessionStatus = iota

	// SessionAuthenticated means an identity is present.
	SessionAuthenticated

	// SessionUnauthenticated means the provider reported no identity.
	SessionUnauthenticated
)

// String returns the string representation of the status.
func (s SessionStatus) String() string {
	switch s {
	case SessionUnknown:
		return "unknown"
	case SessionAuthenticated:
		return "authenticated"
	case SessionUnauthenticated:
		return "unauthenticated"
	default:
		return unknownDescription
	}
}

// SessionState is an immutable snapshot of the session guard.
type SessionState struct {
	Status SessionStatus

	// Identity is non-nil only when Status is SessionAuthenticated.
	Identity *Identity
}

// IsAuthenticated returns true if an identity is present.
func (s SessionState) IsAuthenticated() bool {
	return s.Status == SessionAuthenticated && s.Identity != nil
}

// IsLoading returns true while the provider has not reported yet.
func (s SessionState) IsLoading() bool {
	return s.Status == SessionUnknown
}

// StateFor builds the state that corresponds to a provider report.
func StateFor(identity *Identity) SessionState {
	if identity == nil {
		return SessionState{Status: SessionUnauthenticated}
	}
	id := *identity
	return SessionState{Status: SessionAuthenticated, Identity: &id}
}

// StoredSession is the sign-in state a credential provider persists between
// process runs. The core never reads or writes it.
type StoredSession struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email,omitempty"`
	RefreshToken string    `json:"refresh_token"`
	IDToken      string    `json:"id_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// Identity returns the identity this session belongs to.
func (s *StoredSession) Identity() *Identity {
	if s == nil || s.UID == "" {
		return nil
	}
	return &Identity{UID: s.UID, Email: s.Email}
}

// IsExpired returns true if the cached ID token has expired.
func (s *StoredSession) IsExpired() bool {
	if s.Expiry.IsZero() {
		return true
	}
	return time.Now().After(s.Expiry)
}
