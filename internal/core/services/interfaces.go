package services

import "context"

// HandleInfo is what the external identity provider knows about a handle
type HandleInfo struct {
	Handle string
	Rating *int
}

// HandleVerifier checks that a handle resolves through the external
// identity provider. Implementations treat any transport failure as
// "not verified" — an unreachable provider must not admit unverifiable
// handles.
type HandleVerifier interface {
	// Verify returns the provider's view of the handle, or nil if the
	// handle does not resolve.
	Verify(ctx context.Context, handle string) (*HandleInfo, error)
}
