package identity

import "context"

type IdentityService interface {
	// Resolve tries each candidate in order and returns the first registered user ID
	Resolve(ctx context.Context, candidates []string) (string, error)

	// Register binds aliases (and the user ID itself) to the user
	Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error)
}
