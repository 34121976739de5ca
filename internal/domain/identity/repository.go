package identity

import "context"

type IdentityRepository interface {
	// Lookup returns ErrUnknownIdentity when the alias is not registered
	Lookup(ctx context.Context, alias string) (string, error)
	Save(ctx context.Context, alias string, userID string) error
}
