package auth

import "context"

type contextKey string

const ownerKey contextKey = "coachd-owner"

// WithOwner stores the authenticated owner id on the context.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey, owner)
}

// OwnerFromContext retrieves the owner id stored by WithOwner.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ownerKey).(string)
	return owner, ok && owner != ""
}
