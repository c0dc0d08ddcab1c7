package auth

import "context"

// Identity is the resolved caller identity for an authenticated request.
type Identity struct {
	UserID string
	Email  string
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// identityKey is the context key for storing the caller Identity.
const identityKey contextKey = "identity"

// ContextWithIdentity adds the caller identity to the context.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the caller identity from the context.
// Returns nil if the request was not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	id, ok := ctx.Value(identityKey).(*Identity)
	if !ok {
		return nil
	}
	return id
}
