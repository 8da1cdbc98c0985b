package secrets

import (
	"context"
	"errors"
)

// ErrNotFound means no secret is stored for the tenant. Handlers must answer
// a miss exactly like a wrong password so tenant slugs cannot be enumerated.
var ErrNotFound = errors.New("secret not found")

// Provider maps a tenant slug to its current shared secret. Secrets are
// created and rotated out-of-band by an operator; the gateway only reads.
type Provider interface {
	LookupSecret(ctx context.Context, tenant string) (string, error)
}
