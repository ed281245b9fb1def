// Package identity models who a search request belongs to: a registered
// user or an anonymous guest session. Exactly one of the two is set.
package identity

// Identity is the caller identity attached to a request.
type Identity struct {
	UserID    string
	SessionID string
}

// Authenticated returns an identity for a registered user.
func Authenticated(userID string) Identity {
	return Identity{UserID: userID}
}

// Anonymous returns an identity for a guest session. An empty sessionID is
// legal here but will be denied by the rate limiter (nothing to track).
func Anonymous(sessionID string) Identity {
	return Identity{SessionID: sessionID}
}

// IsAuthenticated reports whether the caller is a registered user.
func (id Identity) IsAuthenticated() bool {
	return id.UserID != ""
}
