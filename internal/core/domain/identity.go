package domain

// Identity represents a signed-in principal.
// It is owned by the credential provider; the core only observes it and
// never keeps it beyond a single operation.
type Identity struct {
	// UID is the provider's unique subject identifier.
	UID string `json:"uid"`

	// Email is optional.
	Email string `json:"email,omitempty"`
}

// Same reports whether two identities refer to the same principal.
// A nil identity is only the same as another nil identity.
func (i *Identity) Same(other *Identity) bool {
	if i == nil || other == nil {
		return i == nil && other == nil
	}
	return i.UID == other.UID
}

// String returns the email when known, otherwise the UID.
func (i *Identity) String() string {
	if i == nil {
		return ""
	}
	if i.Email != "" {
		return i.Email
	}
	return i.UID
}

// Credential is a bearer token together with the identity it was issued
// for. Both come from the same session snapshot.
type Credential struct {
	Identity Identity
	Token    BearerToken
}

// BearerToken is a short-lived credential attached to a single remote call.
type BearerToken string

// String returns the raw token value.
func (t BearerToken) String() string {
	return string(t)
}
